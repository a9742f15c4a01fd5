// Package pdf генерирует PDF-версию счёта для печати и выгрузки.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/lucid-digital/invoicefacil/internal/models"
)

// Renderer отрисовывает счёт в PDF-документ формата A4.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render возвращает PDF-документ счёта. Профиль бизнеса опционален:
// при nil шапка документа содержит только номер счёта.
func (r *Renderer) Render(inv *models.Invoice, profile *models.BusinessProfile) ([]byte, error) {
	const op = "pdf.Render"

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Arial", "B", 20)
	doc.Cell(120, 12, "INVOICE")
	doc.SetFont("Arial", "", 12)
	doc.Cell(0, 12, inv.InvoiceNumber)
	doc.Ln(16)

	if profile != nil {
		doc.SetFont("Arial", "B", 12)
		doc.Cell(0, 6, profile.Name)
		doc.Ln(6)
		doc.SetFont("Arial", "", 10)
		for _, line := range profileLines(profile) {
			doc.Cell(0, 5, line)
			doc.Ln(5)
		}
		doc.Ln(4)
	}

	doc.SetFont("Arial", "B", 11)
	doc.Cell(0, 6, "Bill To")
	doc.Ln(6)
	doc.SetFont("Arial", "", 10)
	doc.Cell(0, 5, inv.ClientName)
	doc.Ln(5)
	doc.Cell(0, 5, inv.ClientEmail)
	doc.Ln(8)

	doc.SetFont("Arial", "", 10)
	doc.Cell(95, 5, "Issue Date: "+inv.IssueDate.Format("2006-01-02"))
	doc.Cell(0, 5, "Due Date: "+inv.DueDate.Format("2006-01-02"))
	doc.Ln(10)

	// Таблица позиций
	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(240, 240, 240)
	doc.CellFormat(95, 7, "Description", "1", 0, "L", true, 0, "")
	doc.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(35, 7, "Rate", "1", 0, "R", true, 0, "")
	doc.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Arial", "", 10)
	for _, item := range inv.LineItems {
		doc.CellFormat(95, 7, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 7, fmt.Sprintf("%.2f", item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Rate), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Amount), "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Arial", "B", 11)
	doc.CellFormat(155, 8, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 8, fmt.Sprintf("%.2f", inv.Total), "1", 1, "R", false, 0, "")
	doc.Ln(8)

	if inv.Notes != "" {
		doc.SetFont("Arial", "B", 10)
		doc.Cell(0, 5, "Notes")
		doc.Ln(5)
		doc.SetFont("Arial", "", 10)
		doc.MultiCell(0, 5, inv.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func profileLines(profile *models.BusinessProfile) []string {
	var lines []string
	if profile.Address != "" {
		lines = append(lines, profile.Address)
	}
	cityLine := profile.City
	if profile.State != "" {
		cityLine += ", " + profile.State
	}
	if profile.Zip != "" {
		cityLine += " " + profile.Zip
	}
	if cityLine != "" {
		lines = append(lines, cityLine)
	}
	if profile.Country != "" {
		lines = append(lines, profile.Country)
	}
	if profile.Email != "" {
		lines = append(lines, profile.Email)
	}
	if profile.Phone != "" {
		lines = append(lines, profile.Phone)
	}
	return lines
}
