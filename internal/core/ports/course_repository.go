package ports

import (
	"context"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

// CourseRepository defines read access to the course catalogue.
//
// Course references arrive from clients in two legitimate variants: a
// canonical ObjectID hex and a plain string id (e.g. "CS101"). Lookups
// try the ObjectID interpretation first and fall back to the plain
// string; this is an ordered fallback, not error recovery.
type CourseRepository interface {
	FindAll(ctx context.Context) ([]*domain.Course, error)
	FindByRef(ctx context.Context, ref string) (*domain.Course, error)
	FindByRefs(ctx context.Context, refs []string) ([]*domain.Course, error)
}
