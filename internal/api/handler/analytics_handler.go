package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

type AnalyticsHandler struct {
	analytics ports.AnalyticsService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// splitCSV parses a comma-separated query value into its non-empty parts.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// currentMonth is the default month scope for dashboard queries.
func currentMonth() string {
	return time.Now().UTC().Format("2006-01")
}

type schoolAnalyticsResponse struct {
	Overall *ports.ScopeStats        `json:"overall"`
	Courses []ports.CourseAttendance `json:"courses"`
}

// School returns the school-wide percentage plus the per-course
// breakdown, optionally restricted to a course selection.
//
// @Summary      School-wide analytics
// @Tags         analytics
// @Produce      json
// @Param        courses  query  string  false  "Comma-separated course references"
// @Success      200  {object}  schoolAnalyticsResponse
// @Router       /admin/analytics [get]
func (h *AnalyticsHandler) School(c echo.Context) error {
	courseIDs := splitCSV(c.QueryParam("courses"))

	overall, err := h.analytics.ScopePercentage(c.Request().Context(), courseIDs)
	if err != nil {
		return err
	}
	breakdown, err := h.analytics.CourseBreakdown(c.Request().Context(), courseIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, schoolAnalyticsResponse{
		Overall: overall,
		Courses: breakdown,
	})
}

// Course returns the teacher dashboard for one course, defaulting to
// the current month.
//
// @Summary      Course analytics
// @Tags         analytics
// @Produce      json
// @Param        course_id  path   string  true   "Course reference"
// @Param        month      query  string  false  "Month scope, YYYY-MM (defaults to current)"
// @Success      200  {object}  ports.CourseAnalytics
// @Router       /teacher/analytics/{course_id} [get]
func (h *AnalyticsHandler) Course(c echo.Context) error {
	month := c.QueryParam("month")
	if month == "" {
		month = currentMonth()
	}

	result, err := h.analytics.CourseAnalytics(c.Request().Context(), c.Param("course_id"), month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// StudentTimeline returns one student's attendance history for admins.
//
// @Summary      Student attendance timeline
// @Tags         analytics
// @Produce      json
// @Param        id     path   string  true   "Student id"
// @Param        view   query  string  false  "daily (default), weekly, or monthly"
// @Param        month  query  string  false  "Month scope, YYYY-MM (monthly view only)"
// @Success      200  {object}  ports.Timeline
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/student-analytics/{id} [get]
func (h *AnalyticsHandler) StudentTimeline(c echo.Context) error {
	view := c.QueryParam("view")
	if view == "" {
		view = ports.ViewDaily
	}

	timeline, err := h.analytics.StudentTimeline(c.Request().Context(), c.Param("id"), view, c.QueryParam("month"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timeline)
}

// OwnTimeline returns the caller's attendance history, resolved from
// the token subject.
//
// @Summary      Own attendance timeline
// @Tags         analytics
// @Produce      json
// @Param        view   query  string  false  "daily (default), weekly, or monthly"
// @Param        month  query  string  false  "Month scope, YYYY-MM (monthly view only)"
// @Success      200  {object}  ports.Timeline
// @Failure      401  {object}  map[string]string
// @Router       /student/attendance [get]
func (h *AnalyticsHandler) OwnTimeline(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	view := c.QueryParam("view")
	if view == "" {
		view = ports.ViewDaily
	}

	timeline, err := h.analytics.StudentTimeline(c.Request().Context(), userID, view, c.QueryParam("month"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, timeline)
}
