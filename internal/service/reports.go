package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	statsSheet      = "stats"
)

// ErrUnsupportedFormat is returned for formats other than xlsx and pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// leadColumns are shown first, and are the only columns in the PDF.
var leadColumns = []string{
	"vfdpolledtimestamp",
	"vfdlogtime",
	"vfdstatus",
	"vfdmode",
	"vfdsettemp",
	"vfdreturnair",
	"vfdfrequency",
	"vfdpower",
	"vfdhumidity",
	"vfdco2level",
}

type statsFetcher interface {
	Stats(ctx context.Context, p StatsParams) (models.VendorResult, error)
}

type ReportsService struct {
	stats statsFetcher
}

func NewReportsService(stats statsFetcher) *ReportsService {
	return &ReportsService{stats: stats}
}

// ExportStats fetches the rows for p and renders them as format.
func (s *ReportsService) ExportStats(ctx context.Context, p StatsParams, format string) (Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatXLSX && format != FormatPDF {
		return Export{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	res, err := s.stats.Stats(ctx, p)
	if err != nil {
		return Export{}, err
	}
	if !res.Success {
		return Export{}, &bms.VendorError{
			Command:    "GetStats",
			HTTPStatus: res.HTTPStatus,
			Status:     res.VendorStatus,
			Message:    res.VendorMessage,
		}
	}
	rows, err := bms.StatsRows(res.Data)
	if err != nil {
		return Export{}, err
	}

	name := fmt.Sprintf("vfd-stats_%s_%s.%s", p.From.Format("20060102"), p.To.Format("20060102"), format)
	if format == FormatPDF {
		body, err := buildStatsPDF(p, rows)
		if err != nil {
			return Export{}, err
		}
		return Export{Filename: name, ContentType: contentTypePDF, Body: body}, nil
	}
	body, err := buildStatsXLSX(rows)
	if err != nil {
		return Export{}, err
	}
	return Export{Filename: name, ContentType: contentTypeXLSX, Body: body}, nil
}

// statsColumns returns leadColumns present in rows followed by every other
// key in lexical order.
func statsColumns(rows []map[string]any) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for _, c := range leadColumns {
		if seen[c] {
			cols = append(cols, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	slices.Sort(rest)
	return append(cols, rest...)
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func buildStatsXLSX(rows []map[string]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return nil, err
	}

	cols := statsColumns(rows)
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(statsSheet, cell, c)
	}
	for r, row := range rows {
		for i, c := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(statsSheet, cell, cellText(row[c]))
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildStatsPDF(p StatsParams, rows []map[string]any) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "VFD Stats")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("From: %s  To: %s", p.From.Format(bms.StatsTimeLayout), p.To.Format(bms.StatsTimeLayout)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(8)

	var cols []string
	for _, c := range statsColumns(rows) {
		if slices.Contains(leadColumns, c) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		pdf.Cell(0, 6, "No rows")
	} else {
		w := 277.0 / float64(len(cols))
		pdf.SetFont("Arial", "B", 7)
		for _, c := range cols {
			pdf.CellFormat(w, 6, strings.TrimPrefix(c, "vfd"), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
		for _, row := range rows {
			for _, c := range cols {
				pdf.CellFormat(w, 5, cellText(row[c]), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
