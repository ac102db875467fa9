// Package invoice renders xlsx invoices from a filled payment.
package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gelvpress/gelv-backend/internal/catalog"
	"github.com/gelvpress/gelv-backend/pkg/config"
	"github.com/gelvpress/gelv-backend/pkg/db/models"
	pkgerrors "github.com/gelvpress/gelv-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetName = "invoice"

	cellNumber    = "B1"
	cellIssueDate = "B2"

	cellBillingName  = "B15"
	cellPersonalCode = "B16"
	cellAddress      = "B17"
	cellBillingEmail = "B18"
	cellPhone        = "B19"
	cellContactEmail = "D19"

	// Product rows are inserted above this row; the prototype row supplies
	// the cell styles for inserted lines.
	productRowAnchor = 22

	dateLayout = "02.01.2006"
)

// Document is a rendered invoice.
type Document struct {
	Number   string
	Filename string
	Bytes    []byte
}

// Generator fills the xlsx invoice template.
type Generator struct {
	cfg config.InvoiceConfig
}

// NewGenerator builds an invoice generator for the configured template and
// locale.
func NewGenerator(cfg config.InvoiceConfig) (*Generator, error) {
	if cfg.TemplatePath == "" {
		return nil, fmt.Errorf("invoice template path required")
	}
	return &Generator{cfg: cfg}, nil
}

type line struct {
	label     string
	amount    int
	unitPrice decimal.Decimal
}

func (l line) total() decimal.Decimal {
	return l.unitPrice.Mul(decimal.NewFromInt(int64(l.amount)))
}

// Generate renders the invoice for the payment. Orders and their product
// associations must be loaded. Each call opens a fresh template copy, so a
// payment with no orders still yields a valid zero-total document.
func (g *Generator) Generate(payment models.Payment, issuedAt time.Time) (*Document, error) {
	verbalized, err := VerbalizePrice(payment.TotalPrice(), g.cfg.Locale)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(g.cfg.TemplatePath)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open invoice template")
	}
	defer f.Close()

	number := payment.Number()
	setCell := func(cell string, value any) {
		if err == nil {
			err = f.SetCellValue(sheetName, cell, value)
		}
	}

	setCell(cellNumber, number)
	setCell(cellIssueDate, issuedAt.Format(dateLayout))
	setCell(cellBillingName, payment.BillingName)
	setCell(cellPersonalCode, payment.PersonalCode)
	setCell(cellAddress, payment.Address)
	setCell(cellBillingEmail, payment.BillingEmail)
	setCell(cellPhone, payment.Phone)
	setCell(cellContactEmail, payment.BillingEmail)

	// Total and verbalized total sit below the product area and shift down
	// with every inserted row.
	setCell(fmt.Sprintf("E%d", productRowAnchor+1), payment.TotalPrice().StringFixed(2))
	setCell(fmt.Sprintf("B%d", productRowAnchor+3), verbalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fill invoice header")
	}

	if err := g.writeLines(f, orderLines(payment)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize invoice")
	}

	return &Document{
		Number:   number,
		Filename: fmt.Sprintf("invoice_%s.xlsx", number),
		Bytes:    buf.Bytes(),
	}, nil
}

func (g *Generator) writeLines(f *excelize.File, lines []line) error {
	styles := map[string]int{}
	for _, col := range []string{"A", "C", "D", "E"} {
		style, err := f.GetCellStyle(sheetName, fmt.Sprintf("%s%d", col, productRowAnchor))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read row style")
		}
		styles[col] = style
	}

	for _, ln := range lines {
		if err := f.InsertRows(sheetName, productRowAnchor, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert invoice row")
		}

		cells := map[string]any{
			"A": ln.label,
			"C": ln.amount,
			"D": ln.unitPrice.StringFixed(2),
			"E": ln.total().StringFixed(2),
		}
		for col, value := range cells {
			ref := fmt.Sprintf("%s%d", col, productRowAnchor)
			if err := f.SetCellValue(sheetName, ref, value); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fill invoice row")
			}
			if err := f.SetCellStyle(sheetName, ref, ref, styles[col]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "style invoice row")
			}
		}
	}
	return nil
}

// Save writes the document into the configured output directory and returns
// the stored path.
func (g *Generator) Save(doc *Document) (string, error) {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice dir")
	}
	path := filepath.Join(g.cfg.OutputDir, doc.Filename)
	if err := os.WriteFile(path, doc.Bytes, 0o644); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write invoice file")
	}
	return path, nil
}

func orderLines(payment models.Payment) []line {
	var lines []line
	for _, order := range payment.IssueOrders {
		lines = append(lines, line{
			label:     catalog.IssueLabel(order.Issue),
			amount:    1,
			unitPrice: order.Price,
		})
	}
	for _, order := range payment.SubscriptionOrders {
		amount := order.Amount
		if amount <= 0 {
			amount = 1
		}
		lines = append(lines, line{
			label:     subscriptionLabel(order),
			amount:    amount,
			unitPrice: order.Price,
		})
	}
	return lines
}

func subscriptionLabel(order models.SubscriptionOrder) string {
	journal := order.Subscription.Journal
	frequency := journal.IssuesPerYear()
	from := catalog.IssueNumberFor(order.Start, frequency)
	to := catalog.IssueNumberFor(order.End()-1, frequency)
	return fmt.Sprintf("%s abonements %s - %s", journal.Name, from, to)
}
