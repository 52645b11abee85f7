package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// stubMatcher resolves matches by student ID: the image payload names
// the student it should match, or "" for a no-match outcome.
type stubMatcher struct {
	matchErr    error
	extractErr  error
	lastGallery []ports.GalleryEntry
}

func (m *stubMatcher) ExtractTemplate(image []byte) (domain.FaceTemplate, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return domain.FaceTemplate{float64(len(image))}, nil
}

func (m *stubMatcher) Match(gallery []ports.GalleryEntry, image []byte) (*ports.GalleryEntry, error) {
	m.lastGallery = gallery
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	for i := range gallery {
		if gallery[i].StudentID == string(image) {
			return &gallery[i], nil
		}
	}
	return nil, nil
}

type stubGuard struct {
	marked    map[string]bool
	checkErr  error
	setErr    error
	setCalls  int
	lastCheck string
}

func newStubGuard() *stubGuard {
	return &stubGuard{marked: make(map[string]bool)}
}

func (g *stubGuard) key(courseID, studentID, date string) string {
	return courseID + "/" + studentID + "/" + date
}

func (g *stubGuard) AlreadyMarked(_ context.Context, courseID, studentID, date string) (bool, error) {
	g.lastCheck = g.key(courseID, studentID, date)
	if g.checkErr != nil {
		return false, g.checkErr
	}
	return g.marked[g.lastCheck], nil
}

func (g *stubGuard) Remember(_ context.Context, courseID, studentID, date string) error {
	g.setCalls++
	if g.setErr != nil {
		return g.setErr
	}
	g.marked[g.key(courseID, studentID, date)] = true
	return nil
}

func seedEnrolled(t *testing.T, repo *stubIdentityRepo, id, name, courseID string) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.Identity{
		ID:           id,
		Name:         name,
		RollNo:       "R-" + id,
		Role:         domain.RoleStudent,
		CourseID:     courseID,
		FaceTemplate: domain.FaceTemplate{float64(len(id))},
	})
	if err != nil {
		t.Fatalf("seed enrolled student: %v", err)
	}
}

func TestMarkByFace_WritesPresentRow(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	matcher := &stubMatcher{}
	guard := newStubGuard()
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := NewAttendanceService(identities, ledger, matcher, guard, zerolog.Nop())
	result, err := svc.MarkByFace(context.Background(), "c1", []byte("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.StudentID != "a" || result.StudentName != "Asha" {
		t.Errorf("result wrong: %+v", result)
	}
	today := time.Now().UTC().Format(domain.DateLayout)
	if result.Date != today {
		t.Errorf("date: want %s, got %s", today, result.Date)
	}

	if len(ledger.events) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(ledger.events))
	}
	event := ledger.events[0]
	if event.StudentID != "a" || event.CourseID != "c1" || event.Date != today || event.Status != domain.StatusPresent {
		t.Errorf("ledger row wrong: %+v", event)
	}
	if guard.setCalls != 1 {
		t.Errorf("expected guard key to be set once, got %d", guard.setCalls)
	}
}

func TestMarkByFace_GalleryExcludesUnenrolled(t *testing.T) {
	identities := newStubIdentityRepo()
	matcher := &stubMatcher{}
	seedEnrolled(t, identities, "a", "Asha", "c1")
	seedStudent(t, identities, "b", "Binod", "c1") // no face template

	svc := NewAttendanceService(identities, newStubLedger(), matcher, newStubGuard(), zerolog.Nop())
	if _, err := svc.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matcher.lastGallery) != 1 || matcher.lastGallery[0].StudentID != "a" {
		t.Errorf("gallery must contain only enrolled students, got %+v", matcher.lastGallery)
	}
}

func TestMarkByFace_EmptyGallery(t *testing.T) {
	svc := NewAttendanceService(newStubIdentityRepo(), newStubLedger(), &stubMatcher{}, newStubGuard(), zerolog.Nop())

	_, err := svc.MarkByFace(context.Background(), "c1", []byte("a"))
	if !errors.Is(err, domain.ErrNoGallery) {
		t.Errorf("expected ErrNoGallery, got %v", err)
	}
}

func TestMarkByFace_NoMatchWritesNothing(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := NewAttendanceService(identities, ledger, &stubMatcher{}, newStubGuard(), zerolog.Nop())
	_, err := svc.MarkByFace(context.Background(), "c1", []byte(""))
	if !errors.Is(err, domain.ErrNoFaceMatch) {
		t.Fatalf("expected ErrNoFaceMatch, got %v", err)
	}
	if len(ledger.events) != 0 {
		t.Errorf("failed match must not write to the ledger, got %d rows", len(ledger.events))
	}
}

func TestMarkByFace_CaptureFailureWritesNothing(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	seedEnrolled(t, identities, "a", "Asha", "c1")
	matcher := &stubMatcher{matchErr: domain.ErrCapture}

	svc := NewAttendanceService(identities, ledger, matcher, newStubGuard(), zerolog.Nop())
	_, err := svc.MarkByFace(context.Background(), "c1", []byte("a"))
	if !errors.Is(err, domain.ErrCapture) {
		t.Fatalf("expected ErrCapture, got %v", err)
	}
	if len(ledger.events) != 0 {
		t.Errorf("capture failure must not write to the ledger, got %d rows", len(ledger.events))
	}
}

func TestMarkByFace_DuplicateCaptureSkipsWrite(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	guard := newStubGuard()
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := NewAttendanceService(identities, ledger, &stubMatcher{}, guard, zerolog.Nop())
	if _, err := svc.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	result, err := svc.MarkByFace(context.Background(), "c1", []byte("a"))
	if err != nil {
		t.Fatalf("re-capture must still succeed: %v", err)
	}
	if result.StudentID != "a" {
		t.Errorf("re-capture result wrong: %+v", result)
	}

	if len(ledger.events) != 1 {
		t.Errorf("expected exactly 1 ledger row after re-capture, got %d", len(ledger.events))
	}
	if guard.setCalls != 1 {
		t.Errorf("guard must not be re-set on a duplicate, got %d set calls", guard.setCalls)
	}
}

func TestMarkByFace_GuardCheckFailureStillWrites(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	guard := newStubGuard()
	guard.checkErr = errors.New("redis down")
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := NewAttendanceService(identities, ledger, &stubMatcher{}, guard, zerolog.Nop())
	if _, err := svc.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("guard outage must not block marking: %v", err)
	}
	if len(ledger.events) != 1 {
		t.Errorf("expected ledger write despite guard outage, got %d rows", len(ledger.events))
	}
}

func TestMarkByFace_GuardSetFailureIsNonFatal(t *testing.T) {
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	guard := newStubGuard()
	guard.setErr = errors.New("redis down")
	seedEnrolled(t, identities, "a", "Asha", "c1")

	svc := NewAttendanceService(identities, ledger, &stubMatcher{}, guard, zerolog.Nop())
	if _, err := svc.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("guard set failure must not fail the mark: %v", err)
	}
	if len(ledger.events) != 1 {
		t.Errorf("expected ledger write, got %d rows", len(ledger.events))
	}
}

func TestMarkByFace_UpsertIsIdempotentWithoutGuard(t *testing.T) {
	// Even when the guard misses (fresh instance), the second mark must
	// collapse into the same ledger row.
	identities := newStubIdentityRepo()
	ledger := newStubLedger()
	seedEnrolled(t, identities, "a", "Asha", "c1")

	first := NewAttendanceService(identities, ledger, &stubMatcher{}, newStubGuard(), zerolog.Nop())
	second := NewAttendanceService(identities, ledger, &stubMatcher{}, newStubGuard(), zerolog.Nop())
	if _, err := first.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if _, err := second.MarkByFace(context.Background(), "c1", []byte("a")); err != nil {
		t.Fatalf("second mark: %v", err)
	}

	if len(ledger.events) != 1 {
		t.Errorf("expected a single ledger row, got %d", len(ledger.events))
	}
}
