package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"paisabook/internal/models"
)

// Renderer produces a PDF receipt for a verified payment.
type Renderer interface {
	Render(payment *models.Payment, userEmail string) ([]byte, error)
}

type pdfRenderer struct{}

// NewPDFRenderer returns the standard single-page receipt renderer.
func NewPDFRenderer() Renderer {
	return &pdfRenderer{}
}

// Render produces an A4 receipt listing the payment identifiers, amount
// and verification time.
func (r *pdfRenderer) Render(payment *models.Payment, userEmail string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "PaisaBook", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Payment Receipt", "", 1, "L", false, 0, "")
	pdf.Ln(6)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	row("Billed To", userEmail)
	row("Order ID", payment.RazorpayOrderID)
	row("Payment ID", payment.RazorpayPaymentID)
	row("Amount", fmt.Sprintf("%s %s", payment.Currency, payment.Amount.StringFixed(2)))
	row("Status", string(payment.Status))
	if payment.VerifiedAt != nil {
		row("Verified At", payment.VerifiedAt.Format("02 Jan 2006 15:04 MST"))
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, "This is a system-generated receipt and does not require a signature.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
