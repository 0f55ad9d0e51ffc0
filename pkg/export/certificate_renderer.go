package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData holds the fields printed on an issued certificate.
type CertificateData struct {
	Reference       string
	StudentName     string
	StudentID       string
	EventTitle      string
	EventDate       string
	CertificateType string
	IssuerName      string
	IssuedAt        time.Time
}

// CertificateRenderer renders certificates as single page landscape PDFs.
type CertificateRenderer struct{}

// NewCertificateRenderer constructs a certificate renderer.
func NewCertificateRenderer() *CertificateRenderer {
	return &CertificateRenderer{}
}

// Render produces the PDF bytes for the certificate.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.StudentName == "" || data.EventTitle == "" {
		return nil, fmt.Errorf("certificate requires student name and event title")
	}
	if data.IssuedAt.IsZero() {
		data.IssuedAt = time.Now().UTC()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	width, height := pdf.GetPageSize()
	pdf.SetLineWidth(1.2)
	pdf.Rect(10, 10, width-20, height-20, "D")
	pdf.SetLineWidth(0.4)
	pdf.Rect(14, 14, width-28, height-28, "D")

	pdf.SetY(38)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 14, tr("Certificate of "+titleCase(data.CertificateType)), "", 1, "C", false, 0, "")

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, tr(data.StudentName), "", 1, "C", false, 0, "")
	if data.StudentID != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 6, tr("Student ID "+data.StudentID), "", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, tr(verbFor(data.CertificateType)), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(data.EventTitle), "", 1, "C", false, 0, "")
	if data.EventDate != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 7, tr("held on "+data.EventDate), "", 1, "C", false, 0, "")
	}

	pdf.SetY(height - 48)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(data.IssuerName), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Issued "+data.IssuedAt.Format("2 January 2006"), "", 1, "C", false, 0, "")
	if data.Reference != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, "Ref. "+data.Reference, "", 1, "C", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func verbFor(certificateType string) string {
	switch certificateType {
	case "completion":
		return "has successfully completed"
	case "achievement":
		return "is recognised for outstanding achievement in"
	default:
		return "has participated in"
	}
}

func titleCase(s string) string {
	if s == "" {
		return "Participation"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
