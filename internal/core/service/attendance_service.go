package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// CaptureGuard abstracts the short-lived dedup store (Redis). It only
// saves redundant writes: the ledger upsert is idempotent regardless.
type CaptureGuard interface {
	AlreadyMarked(ctx context.Context, courseID, studentID, date string) (bool, error)
	Remember(ctx context.Context, courseID, studentID, date string) error
}

// AttendanceService turns live captures into ledger rows.
type AttendanceService struct {
	identities ports.IdentityRepository
	ledger     ports.AttendanceRepository
	matcher    ports.FaceMatcher
	guard      CaptureGuard
	logger     zerolog.Logger
}

func NewAttendanceService(
	identities ports.IdentityRepository,
	ledger ports.AttendanceRepository,
	matcher ports.FaceMatcher,
	guard CaptureGuard,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		identities: identities,
		ledger:     ledger,
		matcher:    matcher,
		guard:      guard,
		logger:     logger,
	}
}

// MarkByFace matches the capture against the course gallery and, on a
// match, upserts (student, course, today) -> Present. No ledger write
// happens on any failure path.
func (s *AttendanceService) MarkByFace(ctx context.Context, courseID string, image []byte) (*ports.MarkResult, error) {
	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{CourseID: courseID, WithFace: true})
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, domain.ErrNoGallery
	}

	gallery := make([]ports.GalleryEntry, len(roster))
	for i, student := range roster {
		gallery[i] = ports.GalleryEntry{
			StudentID: student.ID,
			Name:      student.Name,
			Template:  student.FaceTemplate,
		}
	}

	entry, err := s.matcher.Match(gallery, image)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		s.logger.Info().Str("course_id", courseID).Msg("capture matched no enrolled student")
		return nil, domain.ErrNoFaceMatch
	}

	today := time.Now().UTC().Format(domain.DateLayout)

	duplicate, err := s.guard.AlreadyMarked(ctx, courseID, entry.StudentID, today)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", entry.StudentID).Msg("capture guard check failed, writing anyway")
		duplicate = false
	}
	if duplicate {
		s.logger.Debug().
			Str("student_id", entry.StudentID).
			Str("course_id", courseID).
			Msg("duplicate capture, ledger write skipped")
	} else {
		event := domain.PresenceEvent{
			StudentID: entry.StudentID,
			CourseID:  courseID,
			Date:      today,
			Status:    domain.StatusPresent,
		}
		if err := s.ledger.Upsert(ctx, event); err != nil {
			return nil, err
		}
		if err := s.guard.Remember(ctx, courseID, entry.StudentID, today); err != nil {
			s.logger.Warn().Err(err).Str("student_id", entry.StudentID).Msg("failed to set capture guard key")
		}
	}

	s.logger.Info().
		Str("student_id", entry.StudentID).
		Str("course_id", courseID).
		Str("date", today).
		Msg("attendance marked")

	return &ports.MarkResult{
		StudentID:   entry.StudentID,
		StudentName: entry.Name,
		Date:        today,
	}, nil
}
