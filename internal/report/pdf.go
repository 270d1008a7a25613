package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"

	"github.com/phpdave11/gofpdf"
)

// Image is a raster image to embed, PNG or JPG.
type Image struct {
	Data []byte
	Type string
}

// Assets are optional images placed on the document.
type Assets struct {
	Logo *Image
	QR   []byte
}

// RenderPDF draws the four-page document: cover, radar and category
// analysis, recommendations, contact call to action.
func RenderPDF(v View, assets Assets) ([]byte, error) {
	d := newDoc()
	pdf := d.pdf

	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		w, h := pdf.GetPageSize()
		colTextMuted.setText(pdf)
		d.font("", 8)
		d.text(15, h-8, v.Settings.BrandName)
		d.text(w-35, h-8, fmt.Sprintf("Página %d", pdf.PageNo()))
	})

	drawCover(d, v, assets.Logo)
	drawAnalysis(d, v, assets.QR)
	drawRecommendations(d, v)
	drawCallToAction(d, v)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCover(d *doc, v View, logo *Image) {
	pdf := d.pdf
	pdf.AddPage()
	d.fillPage(colBackground)
	pageW, _ := pdf.GetPageSize()

	const logoW, logoH, logoY = 100.0, 40.0, 20.0
	logoX := pageW/2 - logoW/2
	colWhite.setFill(pdf)
	pdf.RoundedRect(logoX, logoY, logoW, logoH, 8, "1234", "F")
	colAccent.setDraw(pdf)
	pdf.SetLineWidth(1)
	pdf.RoundedRect(logoX, logoY, logoW, logoH, 8, "1234", "D")

	if !drawLogoImage(d, logo, logoX+6, logoY+4, logoW-12, logoH-8) {
		drawWordmark(d, v.Settings.BrandName, logoX+15, logoY+8)
	}

	colPrimary.setText(pdf)
	d.font("B", 22)
	d.centered(100, "DIAGNÓSTICO DE")
	d.centered(120, "MATURIDADE EM")
	d.centered(140, "VENDAS B2B")

	d.font("", 12)
	colTextMuted.setText(pdf)
	d.centered(155, "Análise completa do nível de maturidade da sua empresa")

	if v.Lead != nil {
		d.font("", 10)
		who := v.Lead.Name
		if v.Lead.Company != "" {
			who += " - " + v.Lead.Company
		}
		d.centered(166, "Preparado para: "+who)
	}

	const cardY = 180.0
	colAccent.setFill(pdf)
	pdf.RoundedRect(25, cardY, pageW-50, 65, 12, "1234", "F")
	colWhite.setFill(pdf)
	pdf.RoundedRect(30, cardY+5, pageW-60, 55, 8, "1234", "F")

	d.font("B", 14)
	colAccent.setText(pdf)
	d.centered(cardY+18, "SEU NÍVEL ATUAL")

	d.font("B", 18)
	colPrimary.setText(pdf)
	d.centered(cardY+32, d.fit(v.LevelHeading(), pageW-70))

	d.font("", 10)
	colTextMuted.setText(pdf)
	y := cardY + 42
	for _, line := range d.lines(v.Profile.Description, pageW-80) {
		// d.lines output is already cp1252-encoded, so draw it with pdf.Text directly.
		sw := pdf.GetStringWidth(line)
		pdf.Text(pageW/2-sw/2, y, line)
		y += 5
	}

	d.font("", 9)
	d.centered(270, "Relatório gerado em: "+v.GeneratedDate())
}

func drawLogoImage(d *doc, logo *Image, x, y, maxW, maxH float64) bool {
	if logo == nil || len(logo.Data) == 0 {
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: logo.Type, ReadDpi: false}
	info := d.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(logo.Data))
	if d.pdf.Err() || info == nil || info.Width() <= 0 || info.Height() <= 0 {
		d.pdf.ClearError()
		return false
	}
	scale := math.Min(maxW/info.Width(), maxH/info.Height())
	w, h := info.Width()*scale, info.Height()*scale
	d.pdf.ImageOptions("logo", x+(maxW-w)/2, y+(maxH-h)/2, w, h, false, opts, 0, "")
	return true
}

// drawWordmark is the funnel symbol and brand name used when no logo image is available.
func drawWordmark(d *doc, brand string, x, y float64) {
	pdf := d.pdf
	colAccent.setFill(pdf)
	for i := 0; i < 5; i++ {
		fi := float64(i)
		pdf.Rect(x+fi, y+fi*4, 12-2*fi, 3, "F")
	}

	d.font("B", 14)
	colPrimary.setText(pdf)
	d.text(x+20, y+8, brand)

	d.font("", 6)
	colAccent.setText(pdf)
	d.text(x+20, y+16, "EXCELÊNCIA EM VENDAS")
}

func drawAnalysis(d *doc, v View, qr []byte) {
	pdf := d.pdf
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	d.pageHeader("RADAR DE MATURIDADE", 16)

	colLightGray.setFill(pdf)
	pdf.RoundedRect(15, 35, 90, 100, 8, "1234", "F")
	drawRadar(d, v.Scores.Values(), 60, 85, 30)

	const analysisX = 115.0
	d.font("B", 12)
	colAccent.setText(pdf)
	d.text(analysisX, 40, "ANÁLISE POR CATEGORIA")

	y := 50.0
	for i, c := range v.Categories {
		if i%2 == 0 {
			colLightGray.setFill(pdf)
			pdf.Rect(analysisX-5, y-6, 85, 10, "F")
		}
		d.font("B", 8)
		colAccent.setText(pdf)
		d.text(analysisX, y, fmt.Sprintf("%d.", c.Number))

		colText.setText(pdf)
		d.text(analysisX+6, y, d.fit(c.Name, 46))

		d.font("B", 9)
		colAccent.setText(pdf)
		d.text(analysisX+55, y, formatScore(c.Score)+"/5")

		drawProgressBar(pdf, analysisX+55, y+1, 20, 2, c.Score/catalog.MaxValue, colAccentLight, colAccentDark)
		y += 11
	}

	impactY := math.Max(150, y)
	colPrimary.setFill(pdf)
	pdf.RoundedRect(15, impactY, pageW-30, 40, 8, "1234", "F")
	colAccent.setFill(pdf)
	pdf.RoundedRect(20, impactY+3, pageW-40, 34, 6, "1234", "F")

	colWhite.setText(pdf)
	d.font("B", 11)
	d.centered(impactY+15, "IMPACTO NA EFICIÊNCIA DE VENDAS")
	d.font("B", 14)
	d.centeredAt(pageW/2-30, impactY+28, formatEfficiency(v.Profile.SalesEfficiency)+"x")
	d.centeredAt(pageW/2+30, impactY+28, v.Profile.RevenueIncrease)
	d.font("", 7)
	d.centeredAt(pageW/2-30, impactY+35, "Multiplicador de Eficiência")
	d.centeredAt(pageW/2+30, impactY+35, "Aumento de Receita")

	d.font("B", 10)
	colPrimary.setText(pdf)
	d.text(15, impactY+52, fmt.Sprintf("Pontuação geral: %s/5", formatScore(v.Scores.Overall)))

	if len(qr) > 0 {
		const size = 32.0
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qr))
		if pdf.Err() {
			pdf.ClearError()
			return
		}
		x := pageW - 15 - size
		pdf.ImageOptions("qr", x, impactY+46, size, size, false, opts, 0, "")
		d.font("", 7)
		colTextMuted.setText(pdf)
		d.centeredAt(x+size/2, impactY+46+size+4, "Acesse seu relatório online")
	}
}

// drawRadar draws level rings, numbered axes and the closed score polygon.
func drawRadar(d *doc, scores []float64, cx, cy, radius float64) {
	pdf := d.pdf
	n := len(scores)

	pdf.SetLineWidth(0.3)
	colRing.setDraw(pdf)
	for level := catalog.MinValue; level <= catalog.MaxValue; level++ {
		pdf.Circle(cx, cy, radius*float64(level)/catalog.MaxValue, "D")
	}
	d.font("", 8)
	colTextMuted.setText(pdf)
	d.text(cx+radius+2, cy+1, "5")

	colAxis.setDraw(pdf)
	d.font("B", 10)
	colText.setText(pdf)
	for i := 0; i < n; i++ {
		end := assessment.RadarPoint(cx, cy, radius, i, n, catalog.MaxValue)
		pdf.Line(cx, cy, end.X, end.Y)
		label := assessment.RadarPoint(cx, cy, radius+5, i, n, catalog.MaxValue)
		d.centeredAt(label.X, label.Y+1.5, fmt.Sprintf("%d", i+1))
	}
	if n == 0 {
		return
	}

	vertices := assessment.RadarPolygon(cx, cy, radius, scores)
	pts := make([]gofpdf.PointType, len(vertices))
	for i, p := range vertices {
		pts[i] = gofpdf.PointType{X: p.X, Y: p.Y}
	}
	colAccent.setFill(pdf)
	pdf.SetAlpha(0.25, "Normal")
	pdf.Polygon(pts, "F")
	pdf.SetAlpha(1, "Normal")
	colAccent.setDraw(pdf)
	pdf.SetLineWidth(0.8)
	pdf.Polygon(pts, "D")
	for _, p := range pts {
		pdf.Circle(p.X, p.Y, 1.2, "F")
	}
	pdf.SetLineWidth(0.2)
}

func drawRecommendations(d *doc, v View) {
	pdf := d.pdf
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	d.pageHeader("RECOMENDAÇÕES PARA EVOLUÇÃO", 18)

	if len(v.Recommendations) == 0 {
		d.font("", 11)
		colText.setText(pdf)
		y := 50.0
		for _, line := range d.lines("Todas as categorias estão com pontuação igual ou superior a 4. Continue melhorando os processos existentes.", pageW-40) {
			pdf.Text(20, y, line)
			y += 6
		}
		return
	}

	y := 45.0
	for i, rec := range v.Recommendations {
		const cardH = 40.0
		colCardBg.setFill(pdf)
		colCardBorder.setDraw(pdf)
		pdf.SetLineWidth(0.25)
		pdf.RoundedRect(20, y, pageW-40, cardH, 5, "1234", "FD")

		colAccent.setFill(pdf)
		pdf.Circle(30, y+10, 5, "F")
		d.font("B", 10)
		colWhite.setText(pdf)
		d.centeredAt(30, y+12, fmt.Sprintf("%d", i+1))

		d.font("B", 12)
		colPrimary.setText(pdf)
		d.text(40, y+12, d.fit(rec.Category, pageW-70))

		textY := y + 22
		if !rec.Celebratory {
			d.font("", 10)
			colTextMuted.setText(pdf)
			d.text(40, textY, fmt.Sprintf("Score atual: %s/5", formatScore(rec.Score)))
			textY += 8
		}

		d.font("", 9)
		colText.setText(pdf)
		for _, line := range d.lines(rec.Suggestion, pageW-80) {
			pdf.Text(40, textY, line)
			textY += 4.5
		}
		y += 50
	}
}

func drawCallToAction(d *doc, v View) {
	pdf := d.pdf
	pdf.AddPage()
	d.fillPage(colBackground)
	pageW, _ := pdf.GetPageSize()
	brand := strings.ToUpper(v.Settings.BrandName)

	d.font("B", 24)
	colPrimary.setText(pdf)
	d.centered(80, "PRONTO PARA EVOLUIR")
	d.centered(100, "AO PRÓXIMO NÍVEL?")

	colWhite.setFill(pdf)
	pdf.RoundedRect(30, 120, pageW-60, 80, 10, "1234", "F")

	d.font("B", 16)
	d.centered(140, "A "+brand+" pode ajudar sua empresa")
	d.centered(155, "a alcançar a excelência em vendas B2B")

	d.font("", 12)
	colText.setText(pdf)
	d.centered(175, "Entre em contato conosco e descubra como podemos")
	d.centered(185, "acelerar a evolução da sua área de vendas")

	d.font("B", 10)
	colPrimary.setText(pdf)
	d.centered(220, "E-mail: "+v.Settings.ContactEmail)
	d.centered(235, "Telefone: "+v.Settings.ContactPhone)
	d.centered(250, "Site: "+v.Settings.ContactWebsite)
}
