package domain

import "errors"

// DateLayout is the calendar-day serialization used throughout the
// ledger. Presence events carry no time component.
const DateLayout = "2006-01-02"

// Presence statuses. Absence is never stored: a student is absent on a
// session date iff no Present event exists for (student, course, date).
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

var ErrMonthRequired = errors.New("month parameter is required")
var ErrCoursesRequired = errors.New("course selection is required")
var ErrInvalidView = errors.New("invalid view mode")

// PresenceEvent is one row of the attendance ledger. The logical key is
// (StudentID, CourseID, Date); writes are idempotent upserts.
type PresenceEvent struct {
	StudentID string `json:"student_id" bson:"student_id"`
	CourseID  string `json:"course_id" bson:"course_id"`
	Date      string `json:"date" bson:"date"`
	Status    string `json:"status" bson:"status"`
}
