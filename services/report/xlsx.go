// Package reportsvc renders course data into spreadsheet workbooks.
package reportsvc

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shule/core/course"
	"github.com/trezcool/shule/core/user"
)

const gradebookSheet = "Gradebook"

// ExportGradebook writes crs's roster and grades to an .xlsx workbook at
// path: one row per enrolled student in enrollment order, grade cell
// left blank for ungraded students. students must match crs.StudentIDs.
func ExportGradebook(path string, crs course.Course, students []user.User) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(gradebookSheet)
	if err != nil {
		return errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "dropping default sheet")
	}

	header := []interface{}{"Student", "Username", "Grade"}
	if err := f.SetSheetRow(gradebookSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}

	for i, std := range students {
		row := []interface{}{std.Name, std.Username}
		if g := crs.Grade(std.ID); g.Valid {
			row = append(row, g.Int)
		} else {
			row = append(row, "")
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(gradebookSheet, cell, &row); err != nil {
			return errors.Wrap(err, "writing row "+strconv.Itoa(i+2))
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "saving workbook")
	}
	return nil
}
