package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

type CourseHandler struct {
	courses ports.CourseRepository
}

func NewCourseHandler(courses ports.CourseRepository) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List returns the course catalogue.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Success      200  {array}  domain.Course
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courses.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courses)
}
