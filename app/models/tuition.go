package models

import (
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status values shared by tuitions and applications.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusPaid     = "Paid"
)

const placeholderImage = "https://dummyimage.com/600x400/000/fff.png&text="

// Tuition is a posting by a student or guardian looking for a tutor.
// Fee is in minor currency units.
type Tuition struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatorEmail    string             `bson:"creatorEmail" json:"creatorEmail"`
	CreatorName     string             `bson:"creatorName,omitempty" json:"creatorName,omitempty"`
	Subject         string             `bson:"subject" json:"subject"`
	Class           string             `bson:"class,omitempty" json:"class,omitempty"`
	Location        string             `bson:"location,omitempty" json:"location,omitempty"`
	Schedule        string             `bson:"schedule,omitempty" json:"schedule,omitempty"`
	Fee             int64              `bson:"fee" json:"fee"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ApprovalStatus  string             `bson:"approvalStatus" json:"approvalStatus"`
	IsAdminApproved bool               `bson:"isAdminApproved" json:"isAdminApproved"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	PaymentDate     *time.Time         `bson:"paymentDate,omitempty" json:"paymentDate,omitempty"`
	Image           string             `bson:"image" json:"image"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// TuitionInput is the posting payload. Status fields are never read from
// the client.
type TuitionInput struct {
	CreatorName string `json:"creatorName"`
	Subject     string `json:"subject"`
	Class       string `json:"class"`
	Location    string `json:"location"`
	Schedule    string `json:"schedule"`
	Fee         int64  `json:"fee"`
	Description string `json:"description"`
}

func (in TuitionInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Subject, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Fee, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.Description, validation.Length(0, 5000)),
	)
}

// Tuition builds a pending, unapproved, unpaid posting owned by creator.
func (in TuitionInput) Tuition(creator string, now time.Time) Tuition {
	return Tuition{
		CreatorEmail:    creator,
		CreatorName:     in.CreatorName,
		Subject:         in.Subject,
		Class:           in.Class,
		Location:        in.Location,
		Schedule:        in.Schedule,
		Fee:             in.Fee,
		Description:     in.Description,
		ApprovalStatus:  StatusPending,
		IsAdminApproved: false,
		PaymentStatus:   StatusPending,
		Image:           PlaceholderImage(in.Subject),
		CreatedAt:       now,
	}
}

// PlaceholderImage returns the generated cover image URL for subject.
func PlaceholderImage(subject string) string {
	return placeholderImage + url.QueryEscape(subject)
}

// TuitionOwnerEditable are the fields a creator may change. Approval and
// payment fields are set only by the admin accept route and payment
// reconciliation.
var TuitionOwnerEditable = FieldSet{
	"creatorName": String,
	"subject":     String,
	"class":       String,
	"location":    String,
	"schedule":    String,
	"fee":         Int,
	"description": String,
}
