package ports

import "context"

// Timeline view modes.
const (
	ViewDaily   = "daily"
	ViewWeekly  = "weekly"
	ViewMonthly = "monthly"
)

// ScopeStats is the outcome of a scope percentage computation. An empty
// roster or an empty session set yields a zero-valued result, never an
// error.
type ScopeStats struct {
	StudentCount     int     `json:"student_count"`
	SessionDateCount int     `json:"session_date_count"`
	PresentCount     int64   `json:"present_count"`
	Percentage       float64 `json:"percentage"`
}

// CourseAttendance is one row of the per-course breakdown. Courses with
// zero current students are reported with Attendance 0, not omitted.
type CourseAttendance struct {
	CourseID   string  `json:"course_id"`
	Name       string  `json:"name"`
	Attendance float64 `json:"attendance"`
}

// DailyStat is the present/absent split for a single session date.
// Both counts derive from the same roster snapshot, so Absent is never
// negative.
type DailyStat struct {
	Date    string `json:"date"`
	Present int    `json:"Present"`
	Absent  int    `json:"Absent"`
}

// CourseAnalytics is the per-course dashboard: the month-restricted
// percentage plus the most recent session splits.
type CourseAnalytics struct {
	StudentsInCourse  int         `json:"studentsInCourse"`
	OverallPercentage float64     `json:"overallAttendancePercentage"`
	TotalClasses      int         `json:"totalClasses"`
	DailyStats        []DailyStat `json:"dailyStats"`
}

// DayStatus is one entry of a student's daily timeline.
type DayStatus struct {
	Date   string `json:"date"`
	Status string `json:"status"`
}

// WeekStat aggregates one ISO calendar week of a student's timeline.
type WeekStat struct {
	Week       string  `json:"week"`
	Sessions   int     `json:"sessions"`
	Present    int     `json:"present"`
	Percentage float64 `json:"percentage"`
}

// MonthlySplit is a student's present/absent count over one month.
type MonthlySplit struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

// Timeline is the per-student attendance view. Exactly one of Daily,
// Weekly, Monthly is populated, matching View.
type Timeline struct {
	StudentName string        `json:"studentName"`
	View        string        `json:"view"`
	Daily       []DayStatus   `json:"daily,omitempty"`
	Weekly      []WeekStat    `json:"weekly,omitempty"`
	Monthly     *MonthlySplit `json:"monthly,omitempty"`
}

// AnalyticsService is the attendance analytics aggregator. Every
// operation is a pure function of the roster snapshot and ledger rows
// read within the call; nothing is cached between calls, so identity
// deletions take effect on the very next query.
type AnalyticsService interface {
	// ScopePercentage computes the overall percentage for a course
	// scope; an empty slice means the whole school.
	ScopePercentage(ctx context.Context, courseIDs []string) (*ScopeStats, error)
	// CourseBreakdown repeats the computation per course, each against
	// that course's own current roster.
	CourseBreakdown(ctx context.Context, courseIDs []string) ([]CourseAttendance, error)
	// DailyStats returns the lastN most recent session dates for the
	// course, newest first, with present/absent splits.
	DailyStats(ctx context.Context, courseID string, lastN int) ([]DailyStat, error)
	// MonthlyPercentage restricts the scope computation to session
	// dates with the given "YYYY-MM" prefix.
	MonthlyPercentage(ctx context.Context, courseID, month string) (*ScopeStats, error)
	// CourseAnalytics composes MonthlyPercentage and DailyStats into
	// the teacher dashboard payload.
	CourseAnalytics(ctx context.Context, courseID, month string) (*CourseAnalytics, error)
	// StudentTimeline renders one student's history in the requested
	// view. The monthly view requires an explicit "YYYY-MM" month.
	StudentTimeline(ctx context.Context, studentID, view, month string) (*Timeline, error)
}
