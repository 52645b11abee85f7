package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

const defaultRecentSessions = 7

// AnalyticsService computes attendance statistics. Every call is a pure
// function of a roster snapshot and the ledger rows read in the same
// call: the roster is recomputed each time and ledger rows are always
// filtered down to students present in that snapshot, so events left
// behind by deleted students never contribute to any count.
type AnalyticsService struct {
	identities ports.IdentityRepository
	courses    ports.CourseRepository
	ledger     ports.AttendanceRepository
	logger     zerolog.Logger
}

func NewAnalyticsService(
	identities ports.IdentityRepository,
	courses ports.CourseRepository,
	ledger ports.AttendanceRepository,
	logger zerolog.Logger,
) *AnalyticsService {
	return &AnalyticsService{identities: identities, courses: courses, ledger: ledger, logger: logger}
}

// ScopePercentage computes the overall percentage for a course scope.
// percentage = 100 * present / (students * sessionDates), zero-valued
// when either factor is zero.
func (s *AnalyticsService) ScopePercentage(ctx context.Context, courseIDs []string) (*ports.ScopeStats, error) {
	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{CourseIDs: courseIDs})
	if err != nil {
		return nil, err
	}

	stats := &ports.ScopeStats{StudentCount: len(roster)}
	if len(roster) == 0 {
		return stats, nil
	}

	filter := ports.LedgerFilter{CourseIDs: courseIDs, StudentIDs: studentIDs(roster)}
	dates, err := s.ledger.DistinctDates(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats.SessionDateCount = len(dates)

	filter.Status = domain.StatusPresent
	present, err := s.ledger.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats.PresentCount = present

	if possible := len(roster) * len(dates); possible > 0 {
		stats.Percentage = round2(100 * float64(present) / float64(possible))
	}
	return stats, nil
}

// CourseBreakdown repeats the scope computation independently per
// course, each restricted to that course's own current students. A
// course with no current students reports 0 rather than being omitted.
func (s *AnalyticsService) CourseBreakdown(ctx context.Context, courseIDs []string) ([]ports.CourseAttendance, error) {
	var courses []*domain.Course
	var err error
	if len(courseIDs) == 0 {
		courses, err = s.courses.FindAll(ctx)
	} else {
		courses, err = s.courses.FindByRefs(ctx, courseIDs)
	}
	if err != nil {
		return nil, err
	}

	breakdown := make([]ports.CourseAttendance, 0, len(courses))
	for _, course := range courses {
		stats, err := s.ScopePercentage(ctx, []string{course.ID})
		if err != nil {
			return nil, err
		}
		breakdown = append(breakdown, ports.CourseAttendance{
			CourseID:   course.ID,
			Name:       course.Name,
			Attendance: stats.Percentage,
		})
	}
	return breakdown, nil
}

// DailyStats returns the lastN most recent session dates for the
// course, newest first. Present and absent are both derived from the
// same roster snapshot, so absent cannot go negative.
func (s *AnalyticsService) DailyStats(ctx context.Context, courseID string, lastN int) ([]ports.DailyStat, error) {
	if lastN <= 0 {
		lastN = defaultRecentSessions
	}

	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{CourseID: courseID})
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return []ports.DailyStat{}, nil
	}
	ids := studentIDs(roster)

	dates, err := s.ledger.DistinctDates(ctx, ports.LedgerFilter{CourseID: courseID, StudentIDs: ids})
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > lastN {
		dates = dates[:lastN]
	}

	stats := make([]ports.DailyStat, 0, len(dates))
	for _, date := range dates {
		present, err := s.ledger.Count(ctx, ports.LedgerFilter{
			CourseID:   courseID,
			Date:       date,
			Status:     domain.StatusPresent,
			StudentIDs: ids,
		})
		if err != nil {
			return nil, err
		}
		stats = append(stats, ports.DailyStat{
			Date:    date,
			Present: int(present),
			Absent:  len(roster) - int(present),
		})
	}
	return stats, nil
}

// MonthlyPercentage restricts the scope computation to session dates
// with the given "YYYY-MM" prefix.
func (s *AnalyticsService) MonthlyPercentage(ctx context.Context, courseID, month string) (*ports.ScopeStats, error) {
	if month == "" {
		return nil, domain.ErrMonthRequired
	}

	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{CourseID: courseID})
	if err != nil {
		return nil, err
	}

	stats := &ports.ScopeStats{StudentCount: len(roster)}
	if len(roster) == 0 {
		return stats, nil
	}

	filter := ports.LedgerFilter{CourseID: courseID, StudentIDs: studentIDs(roster), DatePrefix: month}
	dates, err := s.ledger.DistinctDates(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats.SessionDateCount = len(dates)

	filter.Status = domain.StatusPresent
	present, err := s.ledger.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats.PresentCount = present

	if possible := len(roster) * len(dates); possible > 0 {
		stats.Percentage = round2(100 * float64(present) / float64(possible))
	}
	return stats, nil
}

// CourseAnalytics composes the teacher dashboard payload.
func (s *AnalyticsService) CourseAnalytics(ctx context.Context, courseID, month string) (*ports.CourseAnalytics, error) {
	monthly, err := s.MonthlyPercentage(ctx, courseID, month)
	if err != nil {
		return nil, err
	}

	result := &ports.CourseAnalytics{
		StudentsInCourse:  monthly.StudentCount,
		OverallPercentage: monthly.Percentage,
		TotalClasses:      monthly.SessionDateCount,
		DailyStats:        []ports.DailyStat{},
	}
	if monthly.StudentCount == 0 {
		return result, nil
	}

	daily, err := s.DailyStats(ctx, courseID, defaultRecentSessions)
	if err != nil {
		return nil, err
	}
	result.DailyStats = daily
	return result, nil
}

// StudentTimeline renders one student's attendance history. Session
// dates come from the student's course; the student's own Present rows
// determine status per date.
func (s *AnalyticsService) StudentTimeline(ctx context.Context, studentID, view, month string) (*ports.Timeline, error) {
	student, err := s.identities.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	sessionDates, err := s.ledger.DistinctDates(ctx, ports.LedgerFilter{CourseID: student.CourseID})
	if err != nil {
		return nil, err
	}
	presentDates, err := s.ledger.DistinctDates(ctx, ports.LedgerFilter{
		StudentID: studentID,
		Status:    domain.StatusPresent,
	})
	if err != nil {
		return nil, err
	}
	presentSet := make(map[string]struct{}, len(presentDates))
	for _, d := range presentDates {
		presentSet[d] = struct{}{}
	}

	timeline := &ports.Timeline{StudentName: student.Name, View: view}
	switch view {
	case ports.ViewDaily:
		timeline.Daily = dailyLog(sessionDates, presentSet)
	case ports.ViewWeekly:
		timeline.Weekly = s.weeklyTimeline(sessionDates, presentSet)
	case ports.ViewMonthly:
		if month == "" {
			return nil, domain.ErrMonthRequired
		}
		timeline.Monthly = monthlySplit(sessionDates, presentSet, month)
	default:
		return nil, domain.ErrInvalidView
	}
	return timeline, nil
}

// dailyLog lists every session date, newest first, with the student's
// status inferred from the presence set.
func dailyLog(sessionDates []string, presentSet map[string]struct{}) []ports.DayStatus {
	sorted := append([]string(nil), sessionDates...)
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	log := make([]ports.DayStatus, 0, len(sorted))
	for _, date := range sorted {
		status := domain.StatusAbsent
		if _, ok := presentSet[date]; ok {
			status = domain.StatusPresent
		}
		log = append(log, ports.DayStatus{Date: date, Status: status})
	}
	return log
}

// weeklyTimeline buckets session dates by ISO calendar week. Dates that
// fail calendar parsing are skipped so malformed historical rows
// degrade one bucket instead of failing the whole request.
func (s *AnalyticsService) weeklyTimeline(sessionDates []string, presentSet map[string]struct{}) []ports.WeekStat {
	type bucket struct {
		sessions int
		present  int
	}
	weeks := make(map[string]*bucket)

	for _, date := range sessionDates {
		day, err := time.Parse(domain.DateLayout, strings.TrimSpace(date))
		if err != nil {
			s.logger.Debug().Str("date", date).Msg("skipping unparseable session date")
			continue
		}
		year, week := day.ISOWeek()
		key := isoWeekKey(year, week)
		b := weeks[key]
		if b == nil {
			b = &bucket{}
			weeks[key] = b
		}
		b.sessions++
		if _, ok := presentSet[date]; ok {
			b.present++
		}
	}

	keys := make([]string, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	timeline := make([]ports.WeekStat, 0, len(keys))
	for _, key := range keys {
		b := weeks[key]
		stat := ports.WeekStat{Week: key, Sessions: b.sessions, Present: b.present}
		if b.sessions > 0 {
			stat.Percentage = round2(100 * float64(b.present) / float64(b.sessions))
		}
		timeline = append(timeline, stat)
	}
	return timeline
}

// monthlySplit counts present/absent over session dates in one month.
func monthlySplit(sessionDates []string, presentSet map[string]struct{}, month string) *ports.MonthlySplit {
	split := &ports.MonthlySplit{}
	for _, date := range sessionDates {
		if !strings.HasPrefix(date, month) {
			continue
		}
		if _, ok := presentSet[date]; ok {
			split.Present++
		} else {
			split.Absent++
		}
	}
	return split
}

func isoWeekKey(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

func studentIDs(roster []*domain.Identity) []string {
	ids := make([]string, len(roster))
	for i, s := range roster {
		ids[i] = s.ID
	}
	return ids
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
