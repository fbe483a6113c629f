package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/priatmojo/washpool/internal/models"
	"github.com/priatmojo/washpool/internal/service/report"
)

func TestStaffPerformanceXLSX(t *testing.T) {
	rep := report.StaffPerformance{
		From:              time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:                time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalPool:         48000,
		TotalTransactions: 3,
		StaffCount:        2,
		EqualShare:        24000,
		Lines: []report.StaffLine{
			{Staff: models.Staff{ID: 1, Name: "Budi", Phone: "081"}, TransactionCount: 2, Share: 24000},
			{Staff: models.Staff{ID: 2, Name: "Agus", Phone: "082"}, TransactionCount: 1, Share: 24000},
		},
	}

	var buf bytes.Buffer
	err := StaffPerformanceXLSX(&buf, rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err, "output should be a readable workbook")
	defer f.Close() // nolint:errcheck

	cell := func(ref string) string {
		value, err := f.GetCellValue("Staff Performance", ref)
		require.NoError(t, err)
		return value
	}

	require.Equal(t, []string{"Staff Performance"}, f.GetSheetList())
	require.Equal(t, "Staff performance report", cell("A1"))
	require.Equal(t, "2025-06-01 to 2025-06-30", cell("B2"))
	require.Equal(t, "3", cell("B3"))
	require.Equal(t, "48000", cell("B4"))
	require.Equal(t, "2", cell("B5"))
	require.Equal(t, "24000", cell("B6"))

	require.Equal(t, "Name", cell("B8"))
	require.Equal(t, "Budi", cell("B9"))
	require.Equal(t, "2", cell("D9"))
	require.Equal(t, "24000", cell("E9"))
	require.Equal(t, "Agus", cell("B10"))
}

func TestStaffPerformanceXLSX_NoLines(t *testing.T) {
	var buf bytes.Buffer

	err := StaffPerformanceXLSX(&buf, report.StaffPerformance{
		From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() // nolint:errcheck

	value, err := f.GetCellValue("Staff Performance", "B9")
	require.NoError(t, err)
	require.Empty(t, value, "no staff rows without lines")
}
