package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

// CreateInvoice bills a logged sale. A sale is invoiced at most once; asking
// again returns the existing invoice.
func (s *Service) CreateInvoice(ctx context.Context, saleID string) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		sale, err := store.Load[models.SaleRecord](ctx, tx, store.Orders, saleID)
		if err != nil {
			return err
		}
		if sale.InvoiceID != "" {
			invoice, err = store.Load[models.Invoice](ctx, tx, store.Invoices, sale.InvoiceID)
			return err
		}

		var customer *models.Customer
		if sale.CustomerID != nil {
			customer, err = store.Load[models.Customer](ctx, tx, store.Customers, *sale.CustomerID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
		}

		invoice = buildInvoice(uuid.NewString(), sale, customer, s.now())
		if err := tx.Set(ctx, store.Invoices, invoice.InvoiceID, invoice); err != nil {
			return fmt.Errorf("save invoice: %w", err)
		}
		sale.InvoiceID = invoice.InvoiceID
		if err := tx.Set(ctx, store.Orders, sale.SaleID, sale); err != nil {
			return fmt.Errorf("link invoice to sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice issued",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("sale_id", invoice.SaleID),
		zap.Float64("balance_due", invoice.BalanceDue),
	)
	return invoice, nil
}

// buildInvoice derives an invoice from a sale. The customer, when known,
// sets the name and payment terms.
func buildInvoice(id string, sale *models.SaleRecord, customer *models.Customer, now time.Time) *models.Invoice {
	paid := decimal.NewFromFloat(sale.PaymentDetails.AmountTendered)
	total := decimal.NewFromFloat(sale.TotalAmount)
	if paid.GreaterThan(total) {
		paid = total
	}
	balance := total.Sub(paid).Round(2)

	status := models.InvoicePaid
	if balance.IsPositive() {
		status = models.InvoiceUnpaid
	}

	issue := now
	due := issue
	var name string
	if customer != nil {
		name = customer.Name
		due = issue.AddDate(0, 0, customer.PaymentTermsDays)
	}

	shortID := id
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	return &models.Invoice{
		InvoiceID:     id,
		InvoiceNumber: fmt.Sprintf("INV-%s-%s", issue.Format("20060102"), shortID),
		SaleID:        sale.SaleID,
		CustomerID:    sale.CustomerID,
		CustomerName:  name,
		Items:         sale.Items,
		Subtotal:      sale.SubtotalBeforeOverallDiscount,
		Discount:      sale.OverallSaleDiscount,
		TotalAmount:   sale.TotalAmount,
		AmountPaid:    paid.Round(2).InexactFloat64(),
		BalanceDue:    balance.InexactFloat64(),
		IssueDate:     issue,
		DueDate:       due,
		Status:        status,
	}
}
