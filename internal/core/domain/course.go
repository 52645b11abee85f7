package domain

import "errors"

var ErrCourseNotFound = errors.New("course not found")

// Course has an independent lifecycle; identities and presence events
// reference it by id only.
type Course struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}
