package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/phpdave11/gofpdf"
)

type pdfColor struct {
	R int
	G int
	B int
}

func (c pdfColor) setFill(pdf *gofpdf.Fpdf) { pdf.SetFillColor(c.R, c.G, c.B) }
func (c pdfColor) setDraw(pdf *gofpdf.Fpdf) { pdf.SetDrawColor(c.R, c.G, c.B) }
func (c pdfColor) setText(pdf *gofpdf.Fpdf) { pdf.SetTextColor(c.R, c.G, c.B) }
func (c pdfColor) hex() string              { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

var (
	colPrimary     = pdfColor{R: 37, G: 99, B: 108}
	colAccent      = pdfColor{R: 0, G: 150, B: 136}
	colAccentLight = pdfColor{R: 77, G: 182, B: 172}
	colAccentDark  = pdfColor{R: 0, G: 121, B: 107}
	colSuccess     = pdfColor{R: 76, G: 175, B: 80}
	colWarning     = pdfColor{R: 255, G: 193, B: 7}
	colError       = pdfColor{R: 244, G: 67, B: 54}
	colText        = pdfColor{R: 33, G: 37, B: 41}
	colTextMuted   = pdfColor{R: 108, G: 117, B: 125}
	colBackground  = pdfColor{R: 248, G: 249, B: 250}
	colWhite       = pdfColor{R: 255, G: 255, B: 255}
	colGray        = pdfColor{R: 220, G: 220, B: 220}
	colLightGray   = pdfColor{R: 245, G: 245, B: 245}
	colRing        = pdfColor{R: 200, G: 200, B: 200}
	colAxis        = pdfColor{R: 180, G: 180, B: 180}
	colCardBg      = pdfColor{R: 248, G: 250, B: 252}
	colCardBorder  = pdfColor{R: 226, G: 232, B: 240}
)

func levelColor(level int) pdfColor {
	switch level {
	case 1:
		return colError
	case 2:
		return colWarning
	case 3:
		return colAccentLight
	case 4:
		return colAccent
	case 5:
		return colSuccess
	default:
		return colTextMuted
	}
}

// fontCandidates are UTF-8 TrueType fonts probed in order. Without any of
// them the core Helvetica font is used through a cp1252 translator, which
// still covers Portuguese accents.
var fontCandidates = []struct {
	family      string
	regularPath string
	boldPath    string
}{
	{family: "DejaVuSansUTF8", regularPath: "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf", boldPath: "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"},
	{family: "LiberationSansUTF8", regularPath: "/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf", boldPath: "/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf"},
	{family: "ArialUTF8", regularPath: "/System/Library/Fonts/Supplemental/Arial.ttf", boldPath: "/System/Library/Fonts/Supplemental/Arial Bold.ttf"},
}

// doc wraps a gofpdf document with its font family and text translator.
type doc struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

func newDoc() *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 15)

	for _, c := range fontCandidates {
		regular, err := os.ReadFile(c.regularPath)
		if err != nil || len(regular) == 0 {
			continue
		}
		bold := regular
		if b, err := os.ReadFile(c.boldPath); err == nil && len(b) > 0 {
			bold = b
		}
		pdf.SetError(nil)
		pdf.AddUTF8FontFromBytes(c.family, "", regular)
		pdf.AddUTF8FontFromBytes(c.family, "B", bold)
		if pdf.Error() == nil {
			return &doc{pdf: pdf, family: c.family, tr: func(s string) string { return s }}
		}
	}

	pdf.SetError(nil)
	return &doc{pdf: pdf, family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *doc) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

// centered writes text horizontally centered on the page around baseline y.
func (d *doc) centered(y float64, text string) {
	w, _ := d.pdf.GetPageSize()
	d.centeredAt(w/2, y, text)
}

func (d *doc) centeredAt(cx, y float64, text string) {
	s := d.tr(text)
	sw := d.pdf.GetStringWidth(s)
	d.pdf.Text(cx-sw/2, y, s)
}

func (d *doc) text(x, y float64, text string) {
	d.pdf.Text(x, y, d.tr(text))
}

// fit shortens text with an ellipsis until it is at most width wide.
func (d *doc) fit(text string, width float64) string {
	if d.pdf.GetStringWidth(d.tr(text)) <= width {
		return text
	}
	r := []rune(text)
	for len(r) > 0 && d.pdf.GetStringWidth(d.tr(string(r)+"...")) > width {
		r = r[:len(r)-1]
	}
	return strings.TrimSpace(string(r)) + "..."
}

// lines wraps text to width.
func (d *doc) lines(text string, width float64) []string {
	raw := d.pdf.SplitLines([]byte(d.tr(text)), width)
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = string(l)
	}
	return out
}

// pageHeader is the full-width primary band with a centered title.
func (d *doc) pageHeader(title string, size float64) {
	w, _ := d.pdf.GetPageSize()
	colPrimary.setFill(d.pdf)
	d.pdf.Rect(0, 0, w, 25, "F")
	colWhite.setText(d.pdf)
	d.font("B", size)
	d.centered(17, title)
}

func (d *doc) fillPage(c pdfColor) {
	w, h := d.pdf.GetPageSize()
	c.setFill(d.pdf)
	d.pdf.Rect(0, 0, w, h, "F")
}

func drawProgressBar(pdf *gofpdf.Fpdf, x, y, w, h float64, frac float64, c1, c2 pdfColor) {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	colGray.setFill(pdf)
	pdf.RoundedRect(x, y, w, h, h/2, "1234", "F")
	if frac <= 0 {
		return
	}
	fillW := w * frac
	pdf.ClipRoundedRect(x, y, fillW, h, h/2, false)
	pdf.LinearGradient(x, y, fillW, h, c1.R, c1.G, c1.B, c2.R, c2.G, c2.B, 0, 0, 1, 0)
	pdf.ClipEnd()
}
