package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/api/metrics"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

type AttendanceHandler struct {
	attendance ports.AttendanceService
}

func NewAttendanceHandler(attendance ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type markResponse struct {
	Message     string `json:"message"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Date        string `json:"date"`
}

// Mark runs face recognition on a live capture and records attendance.
//
// @Summary      Mark attendance by face
// @Tags         attendance
// @Accept       multipart/form-data
// @Produce      json
// @Param        course_id   formData  string  true  "Course reference"
// @Param        live_image  formData  file    true  "Live capture frame"
// @Success      200  {object}  markResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /teacher/attendance [post]
func (h *AttendanceHandler) Mark(c echo.Context) error {
	courseID := c.FormValue("course_id")
	if courseID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "course_id is required")
	}

	image, err := formFile(c, "live_image")
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := h.attendance.MarkByFace(c.Request().Context(), courseID, image)
	metrics.FaceMatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFaceMatch), errors.Is(err, domain.ErrNoGallery):
			metrics.FaceMatchTotal.WithLabelValues("no_match").Inc()
		default:
			metrics.FaceMatchTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.FaceMatchTotal.WithLabelValues("match").Inc()
	metrics.AttendanceMarkedTotal.Inc()

	return c.JSON(http.StatusOK, markResponse{
		Message:     "attendance marked",
		StudentID:   result.StudentID,
		StudentName: result.StudentName,
		Date:        result.Date,
	})
}
