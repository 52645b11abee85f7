package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

func newStudents(identities *stubIdentityRepo, courses *stubCourseRepo, ledger *stubLedger, matcher *stubMatcher) *StudentService {
	if courses == nil {
		courses = &stubCourseRepo{}
	}
	if matcher == nil {
		matcher = &stubMatcher{}
	}
	return NewStudentService(identities, courses, ledger, matcher, zerolog.Nop())
}

func strPtr(s string) *string { return &s }

func TestRegister_EnrollsWithTemplateAndHash(t *testing.T) {
	identities := newStubIdentityRepo()
	svc := newStudents(identities, nil, newStubLedger(), nil)

	student, err := svc.Register(context.Background(), ports.RegisterStudentInput{
		Name:      "Asha",
		RollNo:    "21",
		CourseID:  "c1",
		Password:  "secret",
		FaceImage: []byte("img"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if student.ID == "" {
		t.Error("expected an assigned ID")
	}
	if student.Role != domain.RoleStudent {
		t.Errorf("role: got %q", student.Role)
	}
	if !student.HasFace() {
		t.Error("expected a stored face template")
	}
	if student.PasswordHash == "secret" || student.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("secret")) != nil {
		t.Error("stored hash does not verify against the password")
	}

	stored, err := identities.FindByRollNo(context.Background(), "21")
	if err != nil {
		t.Fatalf("student not persisted: %v", err)
	}
	if stored.Name != "Asha" {
		t.Errorf("persisted name: got %q", stored.Name)
	}
}

func TestRegister_RejectsMissingFields(t *testing.T) {
	svc := newStudents(newStubIdentityRepo(), nil, newStubLedger(), nil)

	_, err := svc.Register(context.Background(), ports.RegisterStudentInput{
		Name: "Asha", RollNo: "21", CourseID: "c1",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegister_DuplicateRollNo(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	_, err := svc.Register(context.Background(), ports.RegisterStudentInput{
		Name: "Binod", RollNo: "R-a", CourseID: "c1", Password: "x", FaceImage: []byte("img"),
	})
	if !errors.Is(err, domain.ErrRollNoTaken) {
		t.Errorf("expected ErrRollNoTaken, got %v", err)
	}
}

func TestRegister_AmbiguousFaceLeavesNoRecord(t *testing.T) {
	identities := newStubIdentityRepo()
	matcher := &stubMatcher{extractErr: domain.ErrAmbiguousFace}

	svc := newStudents(identities, nil, newStubLedger(), matcher)
	_, err := svc.Register(context.Background(), ports.RegisterStudentInput{
		Name: "Asha", RollNo: "21", CourseID: "c1", Password: "x", FaceImage: []byte("img"),
	})
	if !errors.Is(err, domain.ErrAmbiguousFace) {
		t.Fatalf("expected ErrAmbiguousFace, got %v", err)
	}
	if len(identities.identities) != 0 {
		t.Error("failed enrollment must not persist a student")
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	err := svc.Update(context.Background(), "a", ports.UpdateStudentInput{
		Name:     strPtr("Asha V"),
		CourseID: strPtr("c2"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := identities.FindByID(context.Background(), "a")
	if stored.Name != "Asha V" || stored.CourseID != "c2" {
		t.Errorf("update not applied: %+v", stored)
	}
	if stored.RollNo != "R-a" {
		t.Errorf("unset field must stay unchanged, got roll no %q", stored.RollNo)
	}
}

func TestUpdate_PasswordIsRehashed(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	if err := svc.Update(context.Background(), "a", ports.UpdateStudentInput{Password: strPtr("newpass")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := identities.FindByID(context.Background(), "a")
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpass")) != nil {
		t.Error("stored hash does not verify against the new password")
	}
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	err := svc.Update(context.Background(), "a", ports.UpdateStudentInput{})
	if !errors.Is(err, domain.ErrNothingToUpdate) {
		t.Errorf("expected ErrNothingToUpdate, got %v", err)
	}

	err = svc.Update(context.Background(), "a", ports.UpdateStudentInput{Password: strPtr("")})
	if !errors.Is(err, domain.ErrNothingToUpdate) {
		t.Errorf("blank password alone: expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdate_UnknownStudent(t *testing.T) {
	svc := newStudents(newStubIdentityRepo(), nil, newStubLedger(), nil)

	err := svc.Update(context.Background(), "missing", ports.UpdateStudentInput{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestUpdateFace_ReplacesTemplate(t *testing.T) {
	identities := newStubIdentityRepo()
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	if err := svc.UpdateFace(context.Background(), "a", []byte("new-image")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := identities.FindByID(context.Background(), "a")
	want := domain.FaceTemplate{float64(len("new-image"))}
	if len(stored.FaceTemplate) != 1 || stored.FaceTemplate[0] != want[0] {
		t.Errorf("template not replaced: %v", stored.FaceTemplate)
	}
}

func TestUpdateFace_AmbiguousKeepsOldTemplate(t *testing.T) {
	identities := newStubIdentityRepo()
	seedEnrolled(t, identities, "a", "Asha", "c1")
	before, _ := identities.FindByID(context.Background(), "a")

	matcher := &stubMatcher{extractErr: domain.ErrAmbiguousFace}
	svc := newStudents(identities, nil, newStubLedger(), matcher)
	err := svc.UpdateFace(context.Background(), "a", []byte("img"))
	if !errors.Is(err, domain.ErrAmbiguousFace) {
		t.Fatalf("expected ErrAmbiguousFace, got %v", err)
	}

	after, _ := identities.FindByID(context.Background(), "a")
	if after.FaceTemplate[0] != before.FaceTemplate[0] {
		t.Error("failed re-enrollment must keep the previous template")
	}
}

func TestDelete_CascadesLedger(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	seedStudent(t, identities, "a", "Asha", "c1")
	seedStudent(t, identities, "b", "Binod", "c1")
	seedPresent(t, ledger, "a", "c1", "2024-01-01")
	seedPresent(t, ledger, "a", "c1", "2024-01-02")
	seedPresent(t, ledger, "b", "c1", "2024-01-01")

	svc := newStudents(identities, nil, ledger, nil)
	if err := svc.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := identities.FindByID(context.Background(), "a"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Error("student must be gone")
	}
	if len(ledger.events) != 1 || ledger.events[0].StudentID != "b" {
		t.Errorf("cascade must remove only the deleted student's rows, got %+v", ledger.events)
	}
}

func TestDelete_UnknownStudent(t *testing.T) {
	svc := newStudents(newStubIdentityRepo(), nil, newStubLedger(), nil)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Errorf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestList_SummarizesRoster(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "c1")
	seedStudent(t, identities, "b", "Binod", "c2")

	svc := newStudents(identities, nil, newStubLedger(), nil)
	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "a" || summaries[0].RollNo != "R-a" || summaries[0].CourseID != "c1" {
		t.Errorf("summary wrong: %+v", summaries[0])
	}
}

func TestProfile_ResolvesCourseName(t *testing.T) {
	identities := newStubIdentityRepo()
	courses := &stubCourseRepo{courses: []*domain.Course{{ID: "c1", Name: "Databases"}}}
	seedStudent(t, identities, "a", "Asha", "c1")

	svc := newStudents(identities, courses, newStubLedger(), nil)
	profile, err := svc.Profile(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.CourseName != "Databases" {
		t.Errorf("course name: got %q", profile.CourseName)
	}
	if profile.Role != domain.RoleStudent {
		t.Errorf("role: got %q", profile.Role)
	}
}

func TestProfile_ToleratesDanglingCourseRef(t *testing.T) {
	identities := newStubIdentityRepo()
	seedStudent(t, identities, "a", "Asha", "gone")

	svc := newStudents(identities, &stubCourseRepo{}, newStubLedger(), nil)
	profile, err := svc.Profile(context.Background(), "a")
	if err != nil {
		t.Fatalf("dangling course ref must not fail the profile: %v", err)
	}
	if profile.CourseName != "" {
		t.Errorf("expected empty course name, got %q", profile.CourseName)
	}
}
