// Package export renders report aggregates to spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/priatmojo/washpool/internal/service/report"
)

const staffSheet = "Staff Performance"

// StaffPerformanceXLSX writes the staff performance report as an xlsx
// workbook
func StaffPerformanceXLSX(w io.Writer, rep report.StaffPerformance) error {
	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck

	if err := f.SetSheetName("Sheet1", staffSheet); err != nil {
		return fmt.Errorf("preparing sheet: %w", err)
	}

	var err error
	set := func(cell string, value any) {
		if err == nil {
			err = f.SetCellValue(staffSheet, cell, value)
		}
	}

	set("A1", "Staff performance report")
	set("A2", "Period")
	set("B2", fmt.Sprintf("%s to %s", rep.From.Format("2006-01-02"), rep.To.Format("2006-01-02")))
	set("A3", "Paid transactions")
	set("B3", rep.TotalTransactions)
	set("A4", "Total staff pool")
	set("B4", rep.TotalPool)
	set("A5", "Working staff")
	set("B5", rep.StaffCount)
	set("A6", "Equal share")
	set("B6", rep.EqualShare)

	set("A8", "No")
	set("B8", "Name")
	set("C8", "Phone")
	set("D8", "Jobs worked")
	set("E8", "Share")

	for i, line := range rep.Lines {
		row := 9 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), line.Staff.Name)
		set(fmt.Sprintf("C%d", row), line.Staff.Phone)
		set(fmt.Sprintf("D%d", row), line.TransactionCount)
		set(fmt.Sprintf("E%d", row), line.Share)
	}

	if err != nil {
		return fmt.Errorf("filling sheet: %w", err)
	}

	if err := f.SetColWidth(staffSheet, "A", "A", 18); err != nil {
		return fmt.Errorf("formatting sheet: %w", err)
	}
	if err := f.SetColWidth(staffSheet, "B", "C", 24); err != nil {
		return fmt.Errorf("formatting sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
