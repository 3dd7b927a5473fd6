package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/core/port"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payroll"

// ExportRun renders a run as an xlsx workbook. It returns the workbook and a
// suggested file name.
func (s *Service) ExportRun(ctx context.Context, runID int64) (*bytes.Buffer, string, error) {
	var (
		result *RunWithLines
		users  = make(map[int64]*userDatamodel.User)
	)
	err := s.store.Transaction(ctx, func(tx port.Tx) error {
		var err error
		result, err = s.loadRun(ctx, tx, runID)
		if err != nil {
			return err
		}
		for _, l := range result.Lines {
			u, err := tx.Users().GetByID(ctx, l.UserID)
			if err != nil {
				return err
			}
			users[l.UserID] = u
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	buf, err := writeWorkbook(result, users)
	if err != nil {
		s.logger.Error("failed to write payroll workbook", "run_id", runID, "error", err)
		return nil, "", internal.NewInternalError("failed to generate payroll export", err)
	}

	filename := fmt.Sprintf("payroll_%d_%s_%s.xlsx", result.Run.ID,
		result.Run.PeriodStart.Format(DateLayout), result.Run.PeriodEnd.Format(DateLayout))
	return buf, filename, nil
}

func writeWorkbook(result *RunWithLines, users map[int64]*userDatamodel.User) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	f.SetColWidth(exportSheet, "A", "A", 10)
	f.SetColWidth(exportSheet, "B", "C", 28)
	f.SetColWidth(exportSheet, "D", "E", 14)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	run := result.Run
	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("Payroll run #%d  %s to %s  (%s)",
		run.ID, run.PeriodStart.Format(DateLayout), run.PeriodEnd.Format(DateLayout), run.Status))
	f.MergeCell(exportSheet, "A1", "E1")

	for i, title := range []string{"User ID", "Name", "Email", "Minutes", "Gross pay"} {
		f.SetCellValue(exportSheet, cell(i, 2), title)
	}
	f.SetCellStyle(exportSheet, "A2", "E2", headerStyle)

	row := 3
	for _, l := range result.Lines {
		name, email := "", ""
		if u := users[l.UserID]; u != nil {
			name, email = u.Name, u.Email
		}
		f.SetCellValue(exportSheet, cell(0, row), l.UserID)
		f.SetCellValue(exportSheet, cell(1, row), name)
		f.SetCellValue(exportSheet, cell(2, row), email)
		f.SetCellValue(exportSheet, cell(3, row), l.TotalMinutes)
		f.SetCellValue(exportSheet, cell(4, row), l.GrossPay.StringFixed(2))
		row++
	}
	f.SetCellValue(exportSheet, cell(3, row), "Total")
	f.SetCellValue(exportSheet, cell(4, row), result.Total().StringFixed(2))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
