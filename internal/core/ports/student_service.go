package ports

import (
	"context"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

// RegisterStudentInput carries everything needed to enroll a student,
// including the raw face image for template extraction.
type RegisterStudentInput struct {
	Name      string
	RollNo    string
	CourseID  string
	Password  string
	FaceImage []byte
}

// UpdateStudentInput is a partial profile update; nil fields are left
// unchanged. At least one field must be set.
type UpdateStudentInput struct {
	Name     *string
	RollNo   *string
	CourseID *string
	Password *string
}

// StudentSummary is the roster listing row.
type StudentSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RollNo   string `json:"roll_no"`
	CourseID string `json:"course_id"`
}

// Profile is an identity plus the resolved course name for students.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	RollNo     string `json:"roll_no,omitempty"`
	Role       string `json:"role"`
	CourseID   string `json:"course_id,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

// StudentService manages the student identity lifecycle.
type StudentService interface {
	Register(ctx context.Context, in RegisterStudentInput) (*domain.Identity, error)
	Update(ctx context.Context, id string, in UpdateStudentInput) error
	// UpdateFace re-enrolls the student's face, replacing the stored
	// template wholesale.
	UpdateFace(ctx context.Context, id string, image []byte) error
	// Delete removes the student and cascades a delete over their
	// ledger rows.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]StudentSummary, error)
	Profile(ctx context.Context, id string) (*Profile, error)
}
