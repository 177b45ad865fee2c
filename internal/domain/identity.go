package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Identity is an onboarded participant. It never changes after creation.
type Identity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"name"`
	Email       string    `json:"email"`
	BirthDate   time.Time `json:"dob"`
	Gender      Gender    `json:"gender"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewIdentity holds already validated onboarding fields.
type NewIdentity struct {
	DisplayName string
	Email       string
	BirthDate   time.Time
	Gender      Gender
}
