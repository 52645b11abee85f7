package domain

import "errors"

// Roles an Identity can hold.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var ErrIdentityNotFound = errors.New("identity not found")
var ErrRollNoTaken = errors.New("roll number already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrNothingToUpdate = errors.New("no update data provided")

// FaceTemplate is the fixed-dimension face descriptor produced by the
// biometric capability at enrollment time. A nil template means the
// identity has no enrolled face.
type FaceTemplate []float64

// Identity is a registered account: an admin, a teacher, or a student.
// CourseID and RollNo are populated for students only. FaceTemplate is
// replaced wholesale on re-enrollment, never partially updated.
type Identity struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	Name         string       `json:"name" bson:"name"`
	Email        string       `json:"email,omitempty" bson:"email,omitempty"`
	RollNo       string       `json:"roll_no,omitempty" bson:"roll_no,omitempty"`
	Role         string       `json:"role" bson:"role"`
	CourseID     string       `json:"course_id,omitempty" bson:"course_id,omitempty"`
	PasswordHash string       `json:"-" bson:"password"`
	FaceTemplate FaceTemplate `json:"-" bson:"face_template,omitempty"`
}

// HasFace reports whether the identity has an enrolled face template.
func (i *Identity) HasFace() bool {
	return len(i.FaceTemplate) > 0
}
