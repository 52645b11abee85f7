package ports

import "github.com/Shiva-Rao-IT/faceauth/internal/core/domain"

// Region is a detected face bounding box in image coordinates.
type Region struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Recognizer is the opaque biometric capability: detection, descriptor
// encoding, and descriptor distance. The core never interprets image
// bytes itself.
type Recognizer interface {
	// DetectFaces returns zero or more face regions found in image.
	// An undecodable image is an error, not an empty result.
	DetectFaces(image []byte) ([]Region, error)
	// Encode computes the fixed-length descriptor for one detected region.
	Encode(image []byte, region Region) (domain.FaceTemplate, error)
	// Distance reports descriptor dissimilarity; lower is more similar.
	Distance(a, b domain.FaceTemplate) float64
}
