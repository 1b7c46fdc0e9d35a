package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tutor is a public tutor profile.
type Tutor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	PhotoURL      string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Subjects      string             `bson:"subjects,omitempty" json:"subjects,omitempty"`
	Qualification string             `bson:"qualification,omitempty" json:"qualification,omitempty"`
	Experience    string             `bson:"experience,omitempty" json:"experience,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	UserRole      string             `bson:"userRole" json:"userRole"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type TutorInput struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	PhotoURL      string `json:"photoURL"`
	Subjects      string `json:"subjects"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	Location      string `json:"location"`
}

func (in TutorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.PhotoURL, is.URL),
	)
}

func (in TutorInput) Tutor(now time.Time) Tutor {
	return Tutor{
		Email:         in.Email,
		Name:          in.Name,
		PhotoURL:      in.PhotoURL,
		Subjects:      in.Subjects,
		Qualification: in.Qualification,
		Experience:    in.Experience,
		Location:      in.Location,
		UserRole:      RoleTutor,
		CreatedAt:     now,
	}
}
