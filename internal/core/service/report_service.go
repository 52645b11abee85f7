package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// ReportService builds per-course presence matrices for export. A cell
// is P iff a Present ledger row exists for that student and date, the
// same determination the aggregator uses.
type ReportService struct {
	identities ports.IdentityRepository
	courses    ports.CourseRepository
	ledger     ports.AttendanceRepository
	logger     zerolog.Logger
}

func NewReportService(
	identities ports.IdentityRepository,
	courses ports.CourseRepository,
	ledger ports.AttendanceRepository,
	logger zerolog.Logger,
) *ReportService {
	return &ReportService{identities: identities, courses: courses, ledger: ledger, logger: logger}
}

// CourseReport builds the matrix for a single course and month.
func (s *ReportService) CourseReport(ctx context.Context, courseRef, month string) (*ports.CourseMatrix, error) {
	if month == "" {
		return nil, domain.ErrMonthRequired
	}

	course, err := s.courses.FindByRef(ctx, courseRef)
	if err != nil {
		return nil, err
	}
	return s.buildMatrix(ctx, course, month)
}

// SchoolReport builds one matrix per requested course. Each matrix is
// produced independently with its own roster and date restriction, so
// one course's students never leak into another course's matrix.
func (s *ReportService) SchoolReport(ctx context.Context, courseRefs []string, month string) ([]*ports.CourseMatrix, error) {
	if month == "" {
		return nil, domain.ErrMonthRequired
	}
	if len(courseRefs) == 0 {
		return nil, domain.ErrCoursesRequired
	}

	courses, err := s.courses.FindByRefs(ctx, courseRefs)
	if err != nil {
		return nil, err
	}

	matrices := make([]*ports.CourseMatrix, 0, len(courses))
	for _, course := range courses {
		matrix, err := s.buildMatrix(ctx, course, month)
		if err != nil {
			return nil, err
		}
		matrices = append(matrices, matrix)
	}
	return matrices, nil
}

func (s *ReportService) buildMatrix(ctx context.Context, course *domain.Course, month string) (*ports.CourseMatrix, error) {
	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{CourseID: course.ID})
	if err != nil {
		return nil, err
	}

	dates, err := s.ledger.DistinctDates(ctx, ports.LedgerFilter{CourseID: course.ID, DatePrefix: month})
	if err != nil {
		return nil, err
	}

	header := append([]string{"Roll No", "Student Name"}, dates...)
	rows := make([][]string, 0, len(roster))
	for _, student := range roster {
		presentDates, err := s.ledger.DistinctDates(ctx, ports.LedgerFilter{
			StudentID: student.ID,
			Dates:     dates,
			Status:    domain.StatusPresent,
		})
		if err != nil {
			return nil, err
		}
		presentSet := make(map[string]struct{}, len(presentDates))
		for _, d := range presentDates {
			presentSet[d] = struct{}{}
		}

		row := make([]string, 0, len(header))
		row = append(row, student.RollNo, student.Name)
		for _, date := range dates {
			if _, ok := presentSet[date]; ok {
				row = append(row, "P")
			} else {
				row = append(row, "A")
			}
		}
		rows = append(rows, row)
	}

	s.logger.Debug().
		Str("course", course.ID).
		Str("month", month).
		Int("students", len(rows)).
		Int("sessions", len(dates)).
		Msg("report matrix built")

	return &ports.CourseMatrix{
		CourseID:   course.ID,
		CourseName: course.Name,
		Header:     header,
		Rows:       rows,
	}, nil
}
