package receipt

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	pageWidth  = 210.0
	contentW   = pageWidth - 2*pageMargin
	columnW    = contentW / 2
)

// WritePDF draws the single page layout. Output is byte-identical for the
// same document and fonts.
func WritePDF(doc Document, fonts Fonts, w io.Writer) error {
	pdf := draw(doc, fonts)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	return pdf.Output(w)
}

func draw(doc Document, fonts Fonts) *fpdf.Fpdf {
	fonts = fonts.orEmbedded()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fonts.Bold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fonts.Italic)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetModificationDate(doc.IssuedAt)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title+" "+doc.Reference, true)
	pdf.SetAuthor(doc.Brand, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	// header
	pdf.SetFillColor(18, 52, 86)
	pdf.Rect(0, 0, pageWidth, 32, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetXY(pageMargin, 9)
	pdf.SetFont(fontFamily, "B", 20)
	pdf.CellFormat(columnW, 8, doc.Brand, "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(columnW, 8, "Ref. "+doc.Reference, "", 1, "R", false, 0, "")
	pdf.SetX(pageMargin)
	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(columnW, 6, doc.Title, "", 0, "L", false, 0, "")
	pdf.CellFormat(columnW, 6, "Issued "+doc.IssuedAt.Format("02 Jan 2006"), "", 1, "R", false, 0, "")

	// info block
	pdf.SetTextColor(33, 37, 41)
	top := 42.0
	leftBottom := drawFields(pdf, doc.Left, pageMargin, top)
	rightBottom := drawFields(pdf, doc.Right, pageMargin+columnW, top)
	y := max(leftBottom, rightBottom) + 6

	// itinerary
	it := doc.Itinerary
	pdf.SetDrawColor(200, 205, 210)
	pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
	y += 6
	pdf.SetXY(pageMargin, y)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(contentW-40, 8, "Itinerary", "", 0, "L", false, 0, "")

	pdf.SetFillColor(232, 240, 254)
	pdf.SetTextColor(18, 52, 86)
	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(40, 8, it.TripBadge, "", 1, "C", true, 0, "")

	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont(fontFamily, "B", 16)
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentW, 12, fmt.Sprintf("%s  >  %s", it.From, it.To), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 11)
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentW, 7, "Departure: "+it.Departure, "", 1, "L", false, 0, "")
	if it.HasReturn {
		pdf.SetX(pageMargin)
		pdf.CellFormat(contentW, 7, "Return: "+it.Return, "", 1, "L", false, 0, "")
	}
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentW, 7, "Class: "+it.TravelClass, "", 1, "L", false, 0, "")

	// footer
	pdf.SetY(255)
	pdf.Line(pageMargin, 252, pageWidth-pageMargin, 252)
	pdf.SetFont(fontFamily, "I", 9)
	pdf.SetTextColor(108, 117, 125)
	for _, line := range doc.Footer {
		pdf.SetX(pageMargin)
		pdf.MultiCell(contentW, 5, line, "", "C", false)
	}

	return pdf
}

func drawFields(pdf *fpdf.Fpdf, fields []Field, x, y float64) float64 {
	for _, f := range fields {
		pdf.SetXY(x, y)
		pdf.SetFont(fontFamily, "", 8)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(columnW, 4, f.Label, "", 2, "L", false, 0, "")
		pdf.SetFont(fontFamily, "B", 11)
		pdf.SetTextColor(33, 37, 41)
		pdf.CellFormat(columnW, 6, f.Value, "", 2, "L", false, 0, "")
		y += 12
	}
	return y
}
