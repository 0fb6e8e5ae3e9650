package shoppinglist

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-pdf/fpdf"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	FormatTXT = "txt"
	FormatPDF = "pdf"
	FormatPNG = "png"

	title = "Shopping list"
)

var ErrUnknownFormat = errors.New("unknown export format")

// documentDate is stamped into PDF metadata so repeated exports are byte-identical.
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

type Document struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ContentDisposition is the header value that makes browsers download the document.
func (d Document) ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%q", d.Filename)
}

// Render produces the document for format; an empty format means txt.
func Render(format string, lines []AggregatedLine) (*Document, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTXT:
		return renderTXT(lines), nil
	case FormatPDF:
		return renderPDF(lines)
	case FormatPNG:
		return renderPNG(lines)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderTXT(lines []AggregatedLine) *Document {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return &Document{
		ContentType: "text/plain; charset=utf-8",
		Filename:    "ingredients.txt",
		Body:        []byte(b.String()),
	}
}

func renderPDF(lines []AggregatedLine) (*Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.AddUTF8FontFromBytes("goregular", "", goregular.TTF)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("goregular", "", 9)
		pdf.CellFormat(0, 8, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("goregular", "", 18)
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("goregular", "", 12)
	for _, l := range lines {
		pdf.CellFormat(0, 8, l.String(), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return &Document{
		ContentType: "application/pdf",
		Filename:    "ingredients.pdf",
		Body:        buf.Bytes(),
	}, nil
}

const (
	pngMinWidth   = 800
	pngPadding    = 40.0
	pngTitleSize  = 32.0
	pngLineSize   = 22.0
	pngLineHeight = 34.0
)

var (
	faceOnce  sync.Once
	titleFace font.Face
	lineFace  font.Face
	faceErr   error
)

func loadFaces() (font.Face, font.Face, error) {
	faceOnce.Do(func() {
		parsed, err := truetype.Parse(goregular.TTF)
		if err != nil {
			faceErr = fmt.Errorf("parse font: %w", err)
			return
		}
		titleFace = truetype.NewFace(parsed, &truetype.Options{Size: pngTitleSize, DPI: 72, Hinting: font.HintingNone})
		lineFace = truetype.NewFace(parsed, &truetype.Options{Size: pngLineSize, DPI: 72, Hinting: font.HintingNone})
	})
	return titleFace, lineFace, faceErr
}

// gg contexts share font faces, so rendering is serialized.
var pngMu sync.Mutex

// pngWidth fits the widest line, never narrower than pngMinWidth.
func pngWidth(tf, lf font.Face, lines []AggregatedLine) int {
	widest := font.MeasureString(tf, title)
	for _, l := range lines {
		if w := font.MeasureString(lf, l.String()); w > widest {
			widest = w
		}
	}
	return max(pngMinWidth, widest.Ceil()+int(math.Ceil(2*pngPadding)))
}

func renderPNG(lines []AggregatedLine) (*Document, error) {
	tf, lf, err := loadFaces()
	if err != nil {
		return nil, err
	}

	pngMu.Lock()
	defer pngMu.Unlock()

	width := pngWidth(tf, lf, lines)
	height := int(math.Ceil(2*pngPadding + pngTitleSize + pngLineHeight*float64(len(lines)+1)))

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	dc.SetFontFace(tf)
	y := pngPadding + pngTitleSize
	dc.DrawString(title, pngPadding, y)

	dc.SetFontFace(lf)
	y += pngLineHeight
	for _, l := range lines {
		y += pngLineHeight
		dc.DrawString(l.String(), pngPadding, y)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return &Document{
		ContentType: "image/png",
		Filename:    "ingredients.png",
		Body:        buf.Bytes(),
	}, nil
}
