package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// StudentService manages the student identity lifecycle, including face
// enrollment and the ledger cascade on deletion.
type StudentService struct {
	identities ports.IdentityRepository
	courses    ports.CourseRepository
	ledger     ports.AttendanceRepository
	matcher    ports.FaceMatcher
	logger     zerolog.Logger
}

func NewStudentService(
	identities ports.IdentityRepository,
	courses ports.CourseRepository,
	ledger ports.AttendanceRepository,
	matcher ports.FaceMatcher,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		identities: identities,
		courses:    courses,
		ledger:     ledger,
		matcher:    matcher,
		logger:     logger,
	}
}

// Register enrolls a new student. The face template is extracted before
// anything is written, so an ambiguous image leaves no record behind.
func (s *StudentService) Register(ctx context.Context, in ports.RegisterStudentInput) (*domain.Identity, error) {
	if in.Name == "" || in.RollNo == "" || in.CourseID == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	existing, err := s.identities.FindByRollNo(ctx, in.RollNo)
	if err != nil && !errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrRollNoTaken
	}

	template, err := s.matcher.ExtractTemplate(in.FaceImage)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := &domain.Identity{
		Name:         in.Name,
		RollNo:       in.RollNo,
		Role:         domain.RoleStudent,
		CourseID:     in.CourseID,
		PasswordHash: string(hash),
		FaceTemplate: template,
	}
	if err := s.identities.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Str("student_id", student.ID).Str("roll_no", student.RollNo).Msg("student registered")
	return student, nil
}

// Update applies a partial profile update.
func (s *StudentService) Update(ctx context.Context, id string, in ports.UpdateStudentInput) error {
	update := ports.StudentUpdate{
		Name:     in.Name,
		RollNo:   in.RollNo,
		CourseID: in.CourseID,
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	if update.Name == nil && update.RollNo == nil && update.CourseID == nil && update.PasswordHash == nil {
		return domain.ErrNothingToUpdate
	}
	return s.identities.UpdateStudent(ctx, id, update)
}

// UpdateFace re-enrolls the student's face, replacing the stored
// template wholesale.
func (s *StudentService) UpdateFace(ctx context.Context, id string, image []byte) error {
	template, err := s.matcher.ExtractTemplate(image)
	if err != nil {
		return err
	}
	if err := s.identities.ReplaceFaceTemplate(ctx, id, template); err != nil {
		return err
	}

	s.logger.Info().Str("student_id", id).Msg("face template replaced")
	return nil
}

// Delete removes the student and cascades over their ledger rows. A
// failed cascade is logged, not fatal: analytics filter ledger rows
// down to the current roster on every query, so orphaned rows never
// surface in any count.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.identities.DeleteStudent(ctx, id); err != nil {
		return err
	}

	removed, err := s.ledger.DeleteByStudent(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", id).Msg("ledger cascade failed")
		return nil
	}

	s.logger.Info().Str("student_id", id).Int64("ledger_rows", removed).Msg("student deleted")
	return nil
}

// List returns all students as roster summaries.
func (s *StudentService) List(ctx context.Context) ([]ports.StudentSummary, error) {
	roster, err := s.identities.FindStudents(ctx, ports.StudentFilter{})
	if err != nil {
		return nil, err
	}

	summaries := make([]ports.StudentSummary, len(roster))
	for i, student := range roster {
		summaries[i] = ports.StudentSummary{
			ID:       student.ID,
			Name:     student.Name,
			RollNo:   student.RollNo,
			CourseID: student.CourseID,
		}
	}
	return summaries, nil
}

// Profile resolves an identity plus, for students, their course name.
func (s *StudentService) Profile(ctx context.Context, id string) (*ports.Profile, error) {
	identity, err := s.identities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &ports.Profile{
		ID:       identity.ID,
		Name:     identity.Name,
		Email:    identity.Email,
		RollNo:   identity.RollNo,
		Role:     identity.Role,
		CourseID: identity.CourseID,
	}
	if identity.Role == domain.RoleStudent && identity.CourseID != "" {
		course, err := s.courses.FindByRef(ctx, identity.CourseID)
		if err == nil {
			profile.CourseName = course.Name
		} else if !errors.Is(err, domain.ErrCourseNotFound) {
			return nil, err
		}
	}
	return profile, nil
}
