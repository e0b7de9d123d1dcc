package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signintech/gopdf"
)

var ErrFontNotFound = errors.New("TTF font not loaded, please ensure DejaVuSans.ttf is in ./fonts/ directory")

const (
	pageWidth  = 842.0
	pageHeight = 595.0
	margin     = 30.0
	rowHeight  = 18.0
)

// Table is a titled grid rendered on landscape A4 pages.
type Table struct {
	Title   string
	Headers []string
	// Widths are column widths in points; zero spreads the page evenly.
	Widths []float64
	Rows   [][]string
}

type Generator struct {
	fontPath string
}

// NewGenerator looks up a unicode TTF font so names in any script render.
func NewGenerator() (*Generator, error) {
	wd, _ := os.Getwd()

	fontPaths := []string{
		filepath.Join(wd, "fonts", "DejaVuSans.ttf"),
		"./fonts/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
		"/Library/Fonts/Arial Unicode.ttf",
	}

	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			return &Generator{fontPath: path}, nil
		}
	}

	return nil, ErrFontNotFound
}

func (g *Generator) Table(t Table) ([]byte, error) {
	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{
		PageSize: *gopdf.PageSizeA4Landscape,
		Unit:     gopdf.Unit_PT,
	})

	const font = "dejavu"
	if err := doc.AddTTFFont(font, g.fontPath); err != nil {
		return nil, fmt.Errorf("add font: %w", err)
	}

	widths := columnWidths(t.Widths, len(t.Headers))

	doc.AddPage()
	g.header(doc, font, t.Title)
	y := g.row(doc, font, 80, widths, t.Headers, true)

	for _, r := range t.Rows {
		if y+rowHeight > pageHeight-margin {
			g.footer(doc, font)
			doc.AddPage()
			y = g.row(doc, font, margin, widths, t.Headers, true)
		}
		y = g.row(doc, font, y, widths, r, false)
	}
	g.footer(doc, font)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to output PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *Generator) header(doc *gopdf.GoPdf, font, title string) {
	doc.SetFillColor(59, 130, 246)
	doc.RectFromUpperLeftWithStyle(0, 0, pageWidth, 60, "F")

	doc.SetTextColor(255, 255, 255)
	_ = doc.SetFont(font, "", 20)
	doc.SetX(margin)
	doc.SetY(22)
	_ = doc.Cell(nil, title)
	doc.SetTextColor(0, 0, 0)
}

func (g *Generator) row(doc *gopdf.GoPdf, font string, y float64, widths []float64, cells []string, bold bool) float64 {
	size := 9
	if bold {
		size = 10
		doc.SetFillColor(229, 231, 235)
		doc.RectFromUpperLeftWithStyle(margin, y, pageWidth-2*margin, rowHeight, "F")
	}
	_ = doc.SetFont(font, "", size)

	x := margin
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = fit(doc, cells[i], w-4)
		}
		doc.SetX(x + 2)
		doc.SetY(y + 4)
		_ = doc.Cell(&gopdf.Rect{W: w - 4, H: rowHeight}, text)
		x += w
	}

	doc.SetStrokeColor(209, 213, 219)
	doc.Line(margin, y+rowHeight, pageWidth-margin, y+rowHeight)

	return y + rowHeight
}

func (g *Generator) footer(doc *gopdf.GoPdf, font string) {
	_ = doc.SetFont(font, "", 8)
	doc.SetTextColor(150, 150, 150)
	doc.SetX(margin)
	doc.SetY(pageHeight - 18)
	_ = doc.Cell(nil, "Generated "+time.Now().Format("02 Jan 2006 15:04"))
	doc.SetTextColor(0, 0, 0)
}

func columnWidths(widths []float64, n int) []float64 {
	if len(widths) == n && n > 0 {
		return widths
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = (pageWidth - 2*margin) / float64(n)
	}
	return out
}

// fit truncates text with an ellipsis so it stays inside its column.
func fit(doc *gopdf.GoPdf, text string, width float64) string {
	w, err := doc.MeasureTextWidth(text)
	if err != nil || w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, err = doc.MeasureTextWidth(candidate); err == nil && w <= width {
			return candidate
		}
	}
	return ""
}
