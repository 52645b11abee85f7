package ports

import "context"

// CourseMatrix is one rectangular attendance report: a header of
// [Roll No, Student Name, date...] and one P/A row per current student.
// Session dates are ascending and restricted to the requested month.
type CourseMatrix struct {
	CourseID   string
	CourseName string
	Header     []string
	Rows       [][]string
}

// ReportService builds exportable presence matrices. It reuses the
// aggregator's presence determination: a cell is P iff a Present ledger
// row exists for that student and date.
type ReportService interface {
	CourseReport(ctx context.Context, courseRef, month string) (*CourseMatrix, error)
	// SchoolReport builds one matrix per requested course, each with
	// its own roster and date restriction.
	SchoolReport(ctx context.Context, courseRefs []string, month string) ([]*CourseMatrix, error)
}
