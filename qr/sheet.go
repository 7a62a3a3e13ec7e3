package qr

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

var ErrEmptySheet = errors.New("qr: nothing to print")

// SheetEntry is one printed code.
type SheetEntry struct {
	Label    string
	Subtitle string
	URL      string
}

// Sheet writes an A4 PDF with one labelled QR code per page.
func Sheet(w io.Writer, title string, entries []SheetEntry) error {
	if len(entries) == 0 {
		return ErrEmptySheet
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	imgOpts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	for i, entry := range entries {
		png, err := PNG(entry.URL)
		if err != nil {
			return fmt.Errorf("encode %q: %w", entry.Label, err)
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 12, tr(title), "", 1, "C", false, 0, "")

		name := fmt.Sprintf("qr-%d", i)
		pdf.RegisterImageOptionsReader(name, imgOpts, bytes.NewReader(png))
		pdf.ImageOptions(name, 45, 40, 120, 120, false, imgOpts, 0, "")

		pdf.SetY(170)
		pdf.SetFont("Helvetica", "B", 28)
		pdf.CellFormat(0, 14, tr(entry.Label), "", 1, "C", false, 0, "")
		if entry.Subtitle != "" {
			pdf.SetFont("Helvetica", "", 14)
			pdf.CellFormat(0, 8, tr(entry.Subtitle), "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 8, entry.URL, "", 1, "C", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
