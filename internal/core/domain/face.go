package domain

import "errors"

// ErrCapture covers an undecodable image or an unavailable biometric
// capability. Never retried internally; the caller resubmits.
var ErrCapture = errors.New("could not read capture image")

// ErrAmbiguousFace is the enrollment-time failure for both zero and
// multiple detected faces. Neither case yields an actionable identity,
// so the distinction is not surfaced.
var ErrAmbiguousFace = errors.New("could not detect a single face in the image")

// ErrNoFaceMatch is how the transport layer reports a match procedure
// that resolved to no gallery entry.
var ErrNoFaceMatch = errors.New("no match found")

// ErrNoGallery means the course has no students with enrolled faces.
var ErrNoGallery = errors.New("no students with face data for this course")
