package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Statement renders the payment as a PDF. When StatementDir is set the
// document is also archived there, sealed to a .enc file if the sealer is
// configured. Archive failures are logged and do not fail the request.
func (s *Service) Statement(ctx context.Context, id string) ([]byte, Payment, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, Payment{}, err
	}
	var buf bytes.Buffer
	if err := RenderStatement(&buf, p); err != nil {
		return nil, Payment{}, err
	}
	if s.StatementDir != "" {
		if err := s.archive(p.ID, buf.Bytes()); err != nil {
			slog.Warn("payment statement archive failed", "paymentId", p.ID, "err", err)
		}
	}
	return buf.Bytes(), p, nil
}

func (s *Service) archive(paymentID string, data []byte) error {
	if err := os.MkdirAll(s.StatementDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.StatementDir, paymentID+".pdf")
	if s.Sealer.Enabled() {
		sealed, err := s.Sealer.Seal(string(data))
		if err != nil {
			return err
		}
		return os.WriteFile(path+".enc", sealed, 0o600)
	}
	return os.WriteFile(path, data, 0o600)
}

func RenderStatement(w io.Writer, p Payment) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payment Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Freelancer: %s (%s)", fullName(p.Freelancer), p.Freelancer.FreelancerCode))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", p.Freelancer.Email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s (%s %d)", p.PeriodStart.Format(dateLayout), p.PeriodEnd.Format(dateLayout), time.Month(p.Month), p.Year))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", p.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(28, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(82, 7, "Description", "1", 0, "", false, 0, "")
	pdf.CellFormat(26, 7, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(26, 7, "Type", "1", 0, "", false, 0, "")
	pdf.CellFormat(28, 7, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range p.LineItems {
		pdf.CellFormat(28, 7, item.WorkDate.Format(dateLayout), "1", 0, "", false, 0, "")
		pdf.CellFormat(82, 7, truncate(item.Description, 48), "1", 0, "", false, 0, "")
		pdf.CellFormat(26, 7, item.Rate.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(26, 7, item.RateType, "1", 0, "", false, 0, "")
		pdf.CellFormat(28, 7, item.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s %s", p.TotalAmount.StringFixed(2), p.Currency))
	if p.PaidAt != nil {
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Paid at: %s", p.PaidAt.Format(dateLayout)))
	}
	return pdf.Output(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
