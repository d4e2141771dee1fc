package entities

import (
	"strings"
	"time"
)

// Gender is the self-reported gender of a health record.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// IsValid checks if the gender is one of the defined constants.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// IsMale reports a case-insensitive match on "male". Every other value,
// including Other, padded and unrecognised strings, scores as female.
func (g Gender) IsMale() bool {
	return strings.EqualFold(string(g), string(GenderMale))
}

// ParseGender maps free-form input onto a Gender. ok is false when the
// value is not one of the known genders; the raw value is returned as-is.
func ParseGender(value string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "male", "m":
		return GenderMale, true
	case "female", "f":
		return GenderFemale, true
	case "other":
		return GenderOther, true
	}
	return Gender(value), false
}

// SmokingStatus is the self-reported smoking habit.
type SmokingStatus string

const (
	SmokingNever    SmokingStatus = "Never Smoked"
	SmokingCasual   SmokingStatus = "Casual Smoker"
	SmokingAdvanced SmokingStatus = "Advanced Smoker"
)

// IsValid checks if the status is one of the defined constants.
func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNever, SmokingCasual, SmokingAdvanced:
		return true
	}
	return false
}

// Normalize folds spelling variants ("advanced_smoker", "CASUAL SMOKER",
// "NeverSmoked") onto the canonical constants. Unrecognised values fall
// back to SmokingNever.
func (s SmokingStatus) Normalize() SmokingStatus {
	parsed, ok := ParseSmokingStatus(string(s))
	if !ok {
		return SmokingNever
	}
	return parsed
}

// ParseSmokingStatus maps free-form input onto a SmokingStatus.
func ParseSmokingStatus(value string) (SmokingStatus, bool) {
	key := strings.ToLower(value)
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "neversmoked", "never":
		return SmokingNever, true
	case "casualsmoker", "casual":
		return SmokingCasual, true
	case "advancedsmoker", "advanced":
		return SmokingAdvanced, true
	}
	return SmokingStatus(value), false
}

// HealthRecord is one submitted set of self-reported health attributes.
type HealthRecord struct {
	ID            string        `json:"id" db:"id"`
	UserID        string        `json:"user_id" db:"user_id"`
	Age           int           `json:"age" db:"age"`
	Gender        Gender        `json:"gender" db:"gender"`
	Height        float64       `json:"height" db:"height"` // centimeters
	Weight        float64       `json:"weight" db:"weight"` // kilograms
	Hypertension  bool          `json:"hypertension" db:"hypertension"`
	HeartDisease  bool          `json:"heart_disease" db:"heart_disease"`
	SmokingStatus SmokingStatus `json:"smoking_status" db:"smoking_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Field domains accepted by the assessment form.
const (
	MinAge    = 0
	MaxAge    = 150
	MaxHeight = 300.0
	MaxWeight = 500.0
)
