package ports

import (
	"context"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

// StudentFilter scopes roster queries. Zero value means every student
// in the school.
type StudentFilter struct {
	CourseID  string   // restrict to a single course
	CourseIDs []string // restrict to a set of courses; nil = all
	WithFace  bool     // only students that have an enrolled face template
}

// StudentUpdate is a partial profile update; nil fields are untouched.
type StudentUpdate struct {
	Name         *string
	RollNo       *string
	CourseID     *string
	PasswordHash *string
}

// IdentityRepository defines persistence operations over accounts. The
// analytics layer treats FindStudents as the roster snapshot: it is
// recomputed on every query and is never cached.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	// FindByLogin resolves an identifier that is either an email or a
	// roll number.
	FindByLogin(ctx context.Context, identifier string) (*domain.Identity, error)
	FindByRollNo(ctx context.Context, rollNo string) (*domain.Identity, error)
	// FindStudents returns the current roster matching filter, in
	// stable store order.
	FindStudents(ctx context.Context, filter StudentFilter) ([]*domain.Identity, error)
	// UpdateStudent applies a partial update to a student record.
	UpdateStudent(ctx context.Context, id string, update StudentUpdate) error
	// ReplaceFaceTemplate swaps the whole enrolled template.
	ReplaceFaceTemplate(ctx context.Context, id string, template domain.FaceTemplate) error
	DeleteStudent(ctx context.Context, id string) error
}
