package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

func TestCreateInvoiceUsesCustomerTerms(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedB1(t, st, "B1")
	require.NoError(t, st.Set(ctx, store.Customers, "c-1", models.Customer{CustomerID: "c-1", Name: "Greenway Landscaping", PaymentTermsDays: 30}))

	customer := "c-1"
	res, err := svc.LogSale(ctx, models.SaleInput{
		CustomerID:     &customer,
		Items:          []models.SaleItem{plantLine("B1", 10, 4)},
		PaymentDetails: models.PaymentDetails{PaymentType: models.PaymentCredit, AmountTendered: 15},
	})
	require.NoError(t, err)

	invoice, err := svc.CreateInvoice(ctx, res.Sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, "Greenway Landscaping", invoice.CustomerName)
	assert.Equal(t, 40.0, invoice.TotalAmount)
	assert.Equal(t, 15.0, invoice.AmountPaid)
	assert.Equal(t, 25.0, invoice.BalanceDue)
	assert.Equal(t, models.InvoiceUnpaid, invoice.Status)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), invoice.DueDate)
	assert.Regexp(t, `^INV-20240603-[0-9a-f-]{8}$`, invoice.InvoiceNumber)

	again, err := svc.CreateInvoice(ctx, res.Sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceID, again.InvoiceID)

	sale, err := svc.GetSale(ctx, res.Sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceID, sale.InvoiceID)
}

func TestCreateInvoicePaidWalkIn(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	seedB1(t, st, "B1")

	res, err := svc.LogSale(ctx, models.SaleInput{
		Items:          []models.SaleItem{plantLine("B1", 2, 5)},
		PaymentDetails: models.PaymentDetails{AmountTendered: 20},
	})
	require.NoError(t, err)

	invoice, err := svc.CreateInvoice(ctx, res.Sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, invoice.Status)
	assert.Equal(t, 10.0, invoice.AmountPaid)
	assert.Equal(t, 0.0, invoice.BalanceDue)
	assert.Equal(t, invoice.IssueDate, invoice.DueDate)
	assert.Empty(t, invoice.CustomerName)
}

func TestCreateInvoiceUnknownSale(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateInvoice(context.Background(), "missing")
	require.ErrorIs(t, err, models.ErrNotFound)
}
