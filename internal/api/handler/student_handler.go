package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/api/metrics"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

type StudentHandler struct {
	students ports.StudentService
}

func NewStudentHandler(students ports.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// formFile reads one uploaded file fully into memory. Face images are
// small webcam frames; buffering them whole is fine.
func formFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, field+" file is required")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}
	return data, nil
}

type registerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
}

// Register enrolls a new student with a face image.
//
// @Summary      Register a student
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData  string  true  "Student name"
// @Param        roll_no     formData  string  true  "Roll number"
// @Param        course_id   formData  string  true  "Course reference"
// @Param        password    formData  string  true  "Initial password"
// @Param        face_image  formData  file    true  "Enrollment photo with exactly one face"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/students [post]
func (h *StudentHandler) Register(c echo.Context) error {
	image, err := formFile(c, "face_image")
	if err != nil {
		return err
	}

	student, err := h.students.Register(c.Request().Context(), ports.RegisterStudentInput{
		Name:      c.FormValue("name"),
		RollNo:    c.FormValue("roll_no"),
		CourseID:  c.FormValue("course_id"),
		Password:  c.FormValue("password"),
		FaceImage: image,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAmbiguousFace) || errors.Is(err, domain.ErrCapture) {
			metrics.EnrollmentsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}
	metrics.EnrollmentsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		ID:     student.ID,
		Name:   student.Name,
		RollNo: student.RollNo,
	})
}

type updateStudentRequest struct {
	Name     *string `json:"name"`
	RollNo   *string `json:"roll_no"`
	CourseID *string `json:"course_id"`
	Password *string `json:"password"`
}

// Update applies a partial profile update.
//
// @Summary      Update a student
// @Tags         students
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Student id"
// @Param        body  body  updateStudentRequest  true  "Fields to change"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.students.Update(c.Request().Context(), c.Param("id"), ports.UpdateStudentInput{
		Name:     req.Name,
		RollNo:   req.RollNo,
		CourseID: req.CourseID,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "student updated"})
}

// UpdateFace re-enrolls a student's face.
//
// @Summary      Replace a student's face template
// @Tags         students
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path      string  true  "Student id"
// @Param        face_image  formData  file    true  "New enrollment photo"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/students/{id}/face [put]
func (h *StudentHandler) UpdateFace(c echo.Context) error {
	image, err := formFile(c, "face_image")
	if err != nil {
		return err
	}

	if err := h.students.UpdateFace(c.Request().Context(), c.Param("id"), image); err != nil {
		if errors.Is(err, domain.ErrAmbiguousFace) || errors.Is(err, domain.ErrCapture) {
			metrics.EnrollmentsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}
	metrics.EnrollmentsTotal.WithLabelValues("ok").Inc()

	return c.JSON(http.StatusOK, map[string]string{"message": "face updated"})
}

// Delete removes a student and their attendance history.
//
// @Summary      Delete a student
// @Tags         students
// @Produce      json
// @Param        id  path  string  true  "Student id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.students.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "student deleted"})
}

// List returns the full roster.
//
// @Summary      List students
// @Tags         students
// @Produce      json
// @Success      200  {array}  ports.StudentSummary
// @Router       /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	summaries, err := h.students.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}

// Profile returns the caller's own profile, with the course name
// resolved for students.
//
// @Summary      Own profile
// @Tags         students
// @Produce      json
// @Success      200  {object}  ports.Profile
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *StudentHandler) Profile(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}

	profile, err := h.students.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
