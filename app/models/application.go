package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is a tutor's request to take a tuition. CreatorEmail and
// Subject are copied from the tuition at apply time.
type Application struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TuitionID         string             `bson:"tuitionId" json:"tuitionId"`
	TutorEmail        string             `bson:"tutorEmail" json:"tutorEmail"`
	TutorName         string             `bson:"tutorName,omitempty" json:"tutorName,omitempty"`
	TutorPhoto        string             `bson:"tutorPhoto,omitempty" json:"tutorPhoto,omitempty"`
	CreatorEmail      string             `bson:"creatorEmail" json:"creatorEmail"`
	Subject           string             `bson:"subject" json:"subject"`
	Qualification     string             `bson:"qualification,omitempty" json:"qualification,omitempty"`
	Experience        string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Fee               int64              `bson:"fee" json:"fee"`
	ApplicationStatus string             `bson:"applicationStatus" json:"applicationStatus"`
	PaymentStatus     string             `bson:"paymentStatus" json:"paymentStatus"`
	PaidAt            *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

type ApplicationInput struct {
	TuitionID     string `json:"tuitionId"`
	TutorName     string `json:"tutorName"`
	TutorPhoto    string `json:"tutorPhoto"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	Fee           int64  `json:"fee"`
}

func (in ApplicationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.TuitionID, validation.Required, validation.Length(24, 24)),
		validation.Field(&in.Fee, validation.Required, validation.Min(int64(1))),
	)
}

// Application builds a pending application from tutor for t.
func (in ApplicationInput) Application(tutor string, t *Tuition, now time.Time) Application {
	return Application{
		TuitionID:         t.ID.Hex(),
		TutorEmail:        tutor,
		TutorName:         in.TutorName,
		TutorPhoto:        in.TutorPhoto,
		CreatorEmail:      t.CreatorEmail,
		Subject:           t.Subject,
		Qualification:     in.Qualification,
		Experience:        in.Experience,
		Fee:               in.Fee,
		ApplicationStatus: StatusPending,
		PaymentStatus:     StatusPending,
		CreatedAt:         now,
	}
}

// ApplicationEditable are the fields the applying tutor may change.
var ApplicationEditable = FieldSet{
	"tutorName":     String,
	"tutorPhoto":    String,
	"qualification": String,
	"experience":    String,
	"fee":           Int,
}
