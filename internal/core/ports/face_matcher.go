package ports

import "github.com/Shiva-Rao-IT/faceauth/internal/core/domain"

// GalleryEntry pairs an enrolled student with their face template.
// Gallery order is roster order and is significant: the match procedure
// returns the first entry within tolerance, not the closest one.
type GalleryEntry struct {
	StudentID string
	Name      string
	Template  domain.FaceTemplate
}

// FaceMatcher is the face match decision procedure. It holds no state;
// each call is independent.
type FaceMatcher interface {
	// ExtractTemplate computes the enrollment template for an image
	// containing exactly one face. Zero or multiple faces fail with
	// domain.ErrAmbiguousFace.
	ExtractTemplate(image []byte) (domain.FaceTemplate, error)
	// Match decides which gallery entry, if any, the captured image
	// identifies. A nil entry with a nil error is a normal no-match
	// outcome, including the case where no face is detected at all.
	Match(gallery []GalleryEntry, image []byte) (*GalleryEntry, error)
}
