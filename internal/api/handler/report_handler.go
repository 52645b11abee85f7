package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/api/metrics"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
	"github.com/Shiva-Rao-IT/faceauth/internal/infrastructure/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Course streams the month's attendance matrix for one course as xlsx.
//
// @Summary      Course attendance report
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        course_id  path   string  true  "Course reference"
// @Param        month      query  string  true  "Month scope, YYYY-MM"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /teacher/report/{course_id} [get]
func (h *ReportHandler) Course(c echo.Context) error {
	month := c.QueryParam("month")

	matrix, err := h.reports.CourseReport(c.Request().Context(), c.Param("course_id"), month)
	if err != nil {
		return err
	}

	buf, err := export.CourseWorkbook(matrix)
	if err != nil {
		return err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("course").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+export.Filename(matrix.CourseName, month)+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// School streams one sheet per selected course as a single workbook.
//
// @Summary      School attendance report
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        courses  query  string  true  "Comma-separated course references"
// @Param        month    query  string  true  "Month scope, YYYY-MM"
// @Success      200  {file}  binary
// @Failure      400  {object}  map[string]string
// @Router       /admin/report [get]
func (h *ReportHandler) School(c echo.Context) error {
	month := c.QueryParam("month")
	courseRefs := splitCSV(c.QueryParam("courses"))

	matrices, err := h.reports.SchoolReport(c.Request().Context(), courseRefs, month)
	if err != nil {
		return err
	}
	if len(matrices) == 0 {
		return domain.ErrCourseNotFound
	}

	buf, err := export.SchoolWorkbook(matrices)
	if err != nil {
		return err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("school").Inc()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+export.Filename("school", month)+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
