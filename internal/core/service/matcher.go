package service

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// matchTolerance is the fixed descriptor-distance threshold below which
// two faces are considered the same person. Not user-configurable.
const matchTolerance = 0.6

// Matcher implements the face match decision procedure on top of an
// opaque biometric capability. It is stateless and side-effect-free.
type Matcher struct {
	rec    ports.Recognizer
	logger zerolog.Logger
}

func NewMatcher(rec ports.Recognizer, logger zerolog.Logger) *Matcher {
	return &Matcher{rec: rec, logger: logger}
}

// ExtractTemplate computes an enrollment template. The enrollment image
// must contain exactly one face; zero and multiple regions both fail
// with domain.ErrAmbiguousFace.
func (m *Matcher) ExtractTemplate(image []byte) (domain.FaceTemplate, error) {
	regions, err := m.rec.DetectFaces(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCapture, err)
	}
	if len(regions) != 1 {
		m.logger.Debug().Int("faces", len(regions)).Msg("enrollment image rejected")
		return nil, domain.ErrAmbiguousFace
	}

	template, err := m.rec.Encode(image, regions[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCapture, err)
	}
	return template, nil
}

// Match decides which gallery entry the captured image identifies.
//
// A live capture may contain any number of faces. Each detected face is
// compared, in detection order, against the whole gallery in roster
// order; the first gallery entry within tolerance wins. The result is
// (nil, nil) when no face is detected or no comparison falls below
// tolerance.
func (m *Matcher) Match(gallery []ports.GalleryEntry, image []byte) (*ports.GalleryEntry, error) {
	regions, err := m.rec.DetectFaces(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCapture, err)
	}
	if len(regions) == 0 {
		return nil, nil
	}

	for _, region := range regions {
		probe, err := m.rec.Encode(image, region)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrCapture, err)
		}
		// First match wins, not the closest match. Gallery order is
		// roster order and callers rely on this tie-break.
		for i := range gallery {
			if m.rec.Distance(gallery[i].Template, probe) < matchTolerance {
				return &gallery[i], nil
			}
		}
	}

	return nil, nil
}
