// Package export renders report matrices to xlsx workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/ports"
)

// Excel sheet names are capped at 31 characters.
const maxSheetName = 31

// CourseWorkbook renders a single course matrix as a one-sheet workbook.
func CourseWorkbook(matrix *ports.CourseMatrix) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(matrix.CourseName)
	f.SetSheetName("Sheet1", sheet)

	if err := writeMatrix(f, sheet, matrix); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

// SchoolWorkbook renders one sheet per course matrix.
func SchoolWorkbook(matrices []*ports.CourseMatrix) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	seen := make(map[string]int)
	for i, matrix := range matrices {
		sheet := sheetName(matrix.CourseName)
		if n := seen[sheet]; n > 0 {
			sheet = sheetName(fmt.Sprintf("%s %d", matrix.CourseName, n+1))
		}
		seen[sheetName(matrix.CourseName)]++
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
		if err := writeMatrix(f, sheet, matrix); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}

func writeMatrix(f *excelize.File, sheet string, matrix *ports.CourseMatrix) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	for col, title := range matrix.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowIdx, row := range matrix.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName produces a valid, non-empty sheet name from a course name.
func sheetName(courseName string) string {
	if courseName == "" {
		courseName = "Course"
	}
	if len(courseName) > maxSheetName {
		courseName = courseName[:maxSheetName]
	}
	return courseName
}

// Filename builds the attachment name for a report download.
func Filename(scope, month string) string {
	return fmt.Sprintf("attendance_%s_%s.xlsx", scope, month)
}
