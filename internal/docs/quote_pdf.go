package docs

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"dj-booking/internal/pricing"

	"github.com/phpdave11/gofpdf"
)

// QuoteSheet is everything printed on a customer quote.
type QuoteSheet struct {
	InquiryID int64
	Contact   string
	EventDate string
	Request   pricing.Request
	Quote     pricing.Quote
	IssuedAt  time.Time
}

// RenderQuote returns a one-page PDF quote and a file name for it.
func RenderQuote(sheet QuoteSheet) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DJ Service Quote", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DJ SERVICE QUOTE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Quote No     : %s", reference(sheet)),
		fmt.Sprintf("Issued       : %s", sheet.IssuedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Event        : %s", safe(string(sheet.Request.EventType), "-")),
		fmt.Sprintf("Event date   : %s", safe(sheet.EventDate, "-")),
		fmt.Sprintf("Time         : %s", timeRange(sheet.Request.StartTime, sheet.Request.EndTime)),
		fmt.Sprintf("Contact      : %s", safe(sheet.Contact, "-")),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range sheet.Quote.Lines {
		pdf.CellFormat(120, 6, line.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, pricing.FormatDollars(line.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, pricing.FormatDollars(sheet.Quote.Total), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(120, 8, "Deposit due to reserve the date (50%)", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, pricing.FormatDollars(sheet.Quote.Deposit), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 10)
	note := "Prices in US dollars. Add-ons and overtime are included in package prices."
	if !sheet.Quote.Package {
		note = "Prices in US dollars. Overtime is billed per started hour beyond the included hours."
	}
	pdf.MultiCell(0, 6, note, "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render quote: %w", err)
	}

	filename := fmt.Sprintf("QUOTE_%s.pdf", safeFilenamePart(reference(sheet)))
	return buf.Bytes(), filename, nil
}

func reference(sheet QuoteSheet) string {
	if sheet.InquiryID > 0 {
		return fmt.Sprintf("Q-%d", sheet.InquiryID)
	}
	return "Q-" + sheet.IssuedAt.Format("20060102-1504")
}

func timeRange(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" || end == "" {
		return "-"
	}
	return start + " - " + end
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(strings.TrimSpace(s))
}
