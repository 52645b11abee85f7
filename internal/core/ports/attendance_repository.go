package ports

import (
	"context"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

// LedgerFilter narrows ledger queries. All set fields are combined with
// AND; slice fields translate to set membership.
type LedgerFilter struct {
	CourseID   string
	CourseIDs  []string
	StudentID  string
	StudentIDs []string
	Date       string
	Dates      []string
	DatePrefix string // calendar prefix match, e.g. "2024-01"
	Status     string
}

// AttendanceRepository defines the presence ledger operations the core
// consumes. Upsert must be atomic per (student, course, date) key so
// concurrent re-marks never duplicate a row.
type AttendanceRepository interface {
	// Upsert inserts or updates the event for its logical key.
	Upsert(ctx context.Context, event domain.PresenceEvent) error
	Count(ctx context.Context, filter LedgerFilter) (int64, error)
	// DistinctDates returns the distinct event dates matching filter,
	// sorted ascending.
	DistinctDates(ctx context.Context, filter LedgerFilter) ([]string, error)
	// DeleteByStudent removes every ledger row for a student (cascade on
	// identity deletion) and reports how many rows were removed.
	DeleteByStudent(ctx context.Context, studentID string) (int64, error)
}
