package services

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

const (
	summarySheet = "Summary"
	scansSheet   = "Scans"
)

// ExportScans writes an .xlsx workbook with a per-table summary and every
// scan of the business's current tables inside the window.
func (s *AnalyticsService) ExportScans(ctx context.Context, businessID string, days int, w io.Writer) error {
	stats, err := s.TableAnalytics(ctx, businessID, days)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(stats.Tables))
	names := make(map[string]string, len(stats.Tables))
	for _, st := range stats.Tables {
		ids = append(ids, st.Table.ID)
		names[st.Table.ID] = st.Table.Name
	}
	scans, err := s.scans.ListByTables(ctx, ids, stats.From, stats.To)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return utils.Transient("export scans", err)
	}
	if _, err := f.NewSheet(scansSheet); err != nil {
		return utils.Transient("export scans", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E5E7EB"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return utils.Transient("export scans", err)
	}

	summary := [][]interface{}{{"Table", "Location", "Active", "Scans", "Intensity"}}
	for _, st := range stats.Tables {
		location := ""
		if st.Table.Location != nil {
			location = *st.Table.Location
		}
		summary = append(summary, []interface{}{st.Table.Name, location, st.Table.IsActive, st.Scans, st.Intensity})
	}
	summary = append(summary, []interface{}{"Total", "", "", stats.TotalScans, ""})
	if err := writeRows(f, summarySheet, summary, headerStyle, []float64{24, 20, 10, 10, 12}); err != nil {
		return err
	}

	rows := [][]interface{}{{"Table", "Scanned at", "User agent"}}
	for _, scan := range scans {
		ua := ""
		if scan.UserAgent != nil {
			ua = *scan.UserAgent
		}
		rows = append(rows, []interface{}{names[scan.TableID], scan.ScannedAt.Format("2006-01-02 15:04:05"), ua})
	}
	if err := writeRows(f, scansSheet, rows, headerStyle, []float64{24, 22, 60}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return utils.Transient("export scans", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, widths []float64) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return utils.Transient("export scans", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.Transient("export scans", err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return utils.Transient("export scans", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return utils.Transient("export scans", err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return utils.Transient("export scans", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return utils.Transient("export scans", err)
		}
	}
	return nil
}
