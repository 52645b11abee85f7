package ports

import "context"

// MarkResult reports a successful face-verified attendance mark.
type MarkResult struct {
	StudentID   string
	StudentName string
	Date        string
}

// AttendanceService turns a live capture into a ledger upsert.
type AttendanceService interface {
	// MarkByFace matches the capture against the course gallery and, on
	// a match, upserts (student, course, today) -> Present. A failed
	// match never writes to the ledger.
	MarkByFace(ctx context.Context, courseID string, image []byte) (*MarkResult, error)
}
