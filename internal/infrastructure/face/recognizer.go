// Package face adapts the dlib-backed go-face library to the biometric
// capability interface the core consumes. The model directory must
// contain shape_predictor_5_face_landmarks.dat and
// dlib_face_recognition_resnet_model_v1.dat.
package face

import (
	"fmt"
	"math"
	"sync"

	goface "github.com/Kagami/go-face"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// Recognizer wraps a go-face recognizer. dlib handles are not safe for
// concurrent use, so every call holds the mutex.
type Recognizer struct {
	mu  sync.Mutex
	rec *goface.Recognizer
}

// New loads the dlib models from modelDir.
func New(modelDir string) (*Recognizer, error) {
	rec, err := goface.NewRecognizer(modelDir)
	if err != nil {
		return nil, fmt.Errorf("load face models: %w", err)
	}
	return &Recognizer{rec: rec}, nil
}

// Close releases the dlib resources.
func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rec != nil {
		r.rec.Close()
		r.rec = nil
	}
}

// DetectFaces returns the bounding boxes of every face in the image.
func (r *Recognizer) DetectFaces(image []byte) ([]ports.Region, error) {
	faces, err := r.recognize(image)
	if err != nil {
		return nil, err
	}

	regions := make([]ports.Region, len(faces))
	for i, f := range faces {
		regions[i] = toRegion(f)
	}
	return regions, nil
}

// Encode computes the descriptor for one previously detected region.
// go-face produces descriptors during detection, so the image is run
// again and the face matching the region is picked out.
func (r *Recognizer) Encode(image []byte, region ports.Region) (domain.FaceTemplate, error) {
	faces, err := r.recognize(image)
	if err != nil {
		return nil, err
	}

	for _, f := range faces {
		if toRegion(f) == region {
			return toTemplate(f.Descriptor), nil
		}
	}
	return nil, fmt.Errorf("no face at region (%d,%d,%d,%d)", region.Left, region.Top, region.Right, region.Bottom)
}

// Distance is the euclidean distance between two descriptors. Length
// mismatch (e.g. an empty stored template) never matches anything.
func (r *Recognizer) Distance(a, b domain.FaceTemplate) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

func (r *Recognizer) recognize(image []byte) ([]goface.Face, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rec == nil {
		return nil, fmt.Errorf("recognizer is closed")
	}

	faces, err := r.rec.Recognize(image)
	if err != nil {
		return nil, fmt.Errorf("face detection: %w", err)
	}
	return faces, nil
}

func toRegion(f goface.Face) ports.Region {
	return ports.Region{
		Left:   f.Rectangle.Min.X,
		Top:    f.Rectangle.Min.Y,
		Right:  f.Rectangle.Max.X,
		Bottom: f.Rectangle.Max.Y,
	}
}

func toTemplate(d goface.Descriptor) domain.FaceTemplate {
	template := make(domain.FaceTemplate, len(d))
	for i, v := range d {
		template[i] = float64(v)
	}
	return template
}
