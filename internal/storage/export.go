package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const inquiriesSheet = "Inquiries"

var inquiryHeaders = []string{
	"ID", "Source", "Chat ID", "Username", "Event Type", "Event Date",
	"Start", "End", "Lighting", "Photography", "Video/Visuals",
	"Additional Hours", "Total", "Deposit", "Contact", "Status", "Created At",
}

// ExportInquiryToExcel writes a single inquiry sheet and returns its path.
func (s *PostgresStorage) ExportInquiryToExcel(ctx context.Context, inquiry Inquiry) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inquiry"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	rows := [][2]any{
		{"Inquiry ID", inquiry.ID},
		{"Source", inquiry.Source},
		{"Created At", inquiry.CreatedAt.Format("2006-01-02 15:04")},
		{"Event Type", inquiry.EventType},
		{"Event Date", inquiry.EventDate},
		{"Time", timeRange(inquiry.StartTime, inquiry.EndTime)},
		{"Lighting", yesNo(inquiry.Lighting)},
		{"Photography", yesNo(inquiry.Photography)},
		{"Video/Visuals", yesNo(inquiry.VideoVisuals)},
		{"Additional Hours", additionalHours(inquiry.AdditionalHours)},
		{"Total", inquiry.Total},
		{"Deposit", inquiry.Deposit},
		{"Contact", inquiry.Contact},
		{"Status", inquiry.Status},
	}
	for i, row := range rows {
		r := strconv.Itoa(i + 1)
		if err := f.SetCellValue(sheet, "A"+r, row[0]); err != nil {
			return "", fmt.Errorf("failed to write cell: %w", err)
		}
		if err := f.SetCellValue(sheet, "B"+r, row[1]); err != nil {
			return "", fmt.Errorf("failed to write cell: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		err = f.SetCellStyle(sheet, "A1", "A"+strconv.Itoa(len(rows)), style)
	}
	if err != nil {
		s.logger.Warn("Failed to style inquiry export",
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
	}

	f.SetActiveSheet(index)

	filename := fmt.Sprintf("inquiry_%d_%s.xlsx", inquiry.ID, inquiry.CreatedAt.Format("20060102_1504"))
	return s.saveWorkbook(f, filename)
}

// ExportAllInquiriesToExcel writes every inquiry into <reports>/<name>.xlsx.
func (s *PostgresStorage) ExportAllInquiriesToExcel(ctx context.Context, name string) (string, error) {
	inquiries, err := s.ListInquiries(ctx, 0)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(inquiriesSheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	for col, header := range inquiryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(inquiriesSheet, cell, header); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, inquiry := range inquiries {
		data := []any{
			inquiry.ID,
			inquiry.Source,
			inquiry.ChatID,
			inquiry.Username,
			inquiry.EventType,
			inquiry.EventDate,
			inquiry.StartTime,
			inquiry.EndTime,
			yesNo(inquiry.Lighting),
			yesNo(inquiry.Photography),
			yesNo(inquiry.VideoVisuals),
			additionalHours(inquiry.AdditionalHours),
			inquiry.Total,
			inquiry.Deposit,
			inquiry.Contact,
			inquiry.Status,
			inquiry.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(inquiriesSheet, cell, value); err != nil {
				return "", fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	f.SetActiveSheet(index)

	return s.saveWorkbook(f, name+".xlsx")
}

func (s *PostgresStorage) saveWorkbook(f *excelize.File, filename string) (string, error) {
	if err := os.MkdirAll(s.reportsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(s.reportsDir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return path, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func timeRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	return start + " - " + end
}

func additionalHours(h *int) string {
	if h == nil {
		return ""
	}
	return strconv.Itoa(*h)
}
