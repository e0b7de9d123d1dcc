package checkin

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mandapam/portal/internal/domain"
	"github.com/mandapam/portal/pkg/pdf"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var (
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrFormatUnavailable  = errors.New("export format unavailable on this server")
)

type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

type TableRenderer interface {
	Table(t pdf.Table) ([]byte, error)
}

// Exporter renders a filtered registration set. pdf may be nil when no
// font is installed.
type Exporter struct {
	pdf TableRenderer
}

func NewExporter(pdf TableRenderer) *Exporter {
	return &Exporter{pdf: pdf}
}

var columns = []string{"ID", "Name", "Phone", "Business", "Business Type", "Status", "Payment", "Amount", "Registered At", "Attended At"}

func record(r *domain.Registration) []string {
	var name, phone, business, btype string
	phone = r.Phone
	if m := r.Member; m != nil {
		name, business, btype = m.Name, m.BusinessName, string(m.BusinessType)
		if phone == "" {
			phone = m.Phone
		}
	}
	attended := ""
	if r.AttendedAt != nil {
		attended = r.AttendedAt.Format(time.DateTime)
	}
	registered := ""
	if !r.RegisteredAt.IsZero() {
		registered = r.RegisteredAt.Format(time.DateTime)
	}
	return []string{
		strconv.FormatInt(r.ID, 10),
		name,
		phone,
		business,
		btype,
		string(effectiveStatus(r)),
		string(r.PaymentStatus),
		strconv.FormatFloat(r.AmountPaid, 'f', 2, 64),
		registered,
		attended,
	}
}

func (e *Exporter) Export(eventID int64, rows []domain.Registration, format Format) (*File, error) {
	base := fmt.Sprintf("event-%d-registrations", eventID)
	switch format {
	case FormatCSV:
		data, err := e.csv(rows)
		if err != nil {
			return nil, err
		}
		return &File{Filename: base + ".csv", ContentType: "text/csv", Data: data}, nil
	case FormatXLSX:
		data, err := e.xlsx(rows)
		if err != nil {
			return nil, err
		}
		return &File{Filename: base + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: data}, nil
	case FormatPDF:
		if e.pdf == nil {
			return nil, ErrFormatUnavailable
		}
		data, err := e.pdfTable(eventID, rows)
		if err != nil {
			return nil, err
		}
		return &File{Filename: base + ".pdf", ContentType: "application/pdf", Data: data}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func (e *Exporter) csv(rows []domain.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for i := range rows {
		if err := w.Write(record(&rows[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (e *Exporter) xlsx(rows []domain.Registration) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Registrations"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range rows {
		rec := record(&rows[i])
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) pdfTable(eventID int64, rows []domain.Registration) ([]byte, error) {
	t := pdf.Table{
		Title:   fmt.Sprintf("Event %d registrations", eventID),
		Headers: []string{"ID", "Name", "Phone", "Business", "Status", "Payment", "Attended At"},
		Widths:  []float64{40, 150, 90, 190, 80, 70, 162},
		Rows:    make([][]string, 0, len(rows)),
	}
	for i := range rows {
		r := record(&rows[i])
		t.Rows = append(t.Rows, []string{r[0], r[1], r[2], r[3], r[5], r[6], r[9]})
	}
	data, err := e.pdf.Table(t)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return data, nil
}

// Export lists, filters and renders the registrations of an event.
func (c *Controller) Export(ctx context.Context, eventID int64, f Filter, format Format) (*File, error) {
	rows, err := c.List(ctx, eventID, f)
	if err != nil {
		return nil, err
	}
	return c.exporter.Export(eventID, rows, format)
}
