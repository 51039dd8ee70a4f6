// Package pricing computes line, sale and purchase order totals. Amounts are
// carried as float64 on records and rounded to cents through decimal.
package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

const cents = 2

// Line is the priced part of a sale or purchase order line.
type Line struct {
	Quantity     int
	PricePerUnit float64
	Discount     float64
}

// LineTotal returns max(0, quantity*price - discount) rounded to cents.
func LineTotal(quantity int, pricePerUnit, discount float64) (float64, error) {
	if quantity <= 0 {
		return 0, models.Invalid("quantity", fmt.Sprintf("must be greater than zero, got %d", quantity))
	}
	if err := checkAmount("pricePerUnit", pricePerUnit); err != nil {
		return 0, err
	}
	if err := checkAmount("itemDiscount", discount); err != nil {
		return 0, err
	}

	base := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(pricePerUnit))
	total := clampZero(base.Sub(decimal.NewFromFloat(discount)))
	return toAmount(total), nil
}

// Totals is the outcome of aggregating a set of lines.
type Totals struct {
	LineTotals  []float64
	Subtotal    float64
	TotalAmount float64
	ChangeGiven float64
	Underpaid   bool
	Shortfall   float64
}

// Aggregate sums line totals, applies the overall discount and works out the
// change owed for the tendered amount. Underpayment is flagged, not rejected.
func Aggregate(lines []Line, overallDiscount, amountTendered float64) (Totals, error) {
	if err := checkAmount("overallSaleDiscount", overallDiscount); err != nil {
		return Totals{}, err
	}
	if err := checkAmount("amountTendered", amountTendered); err != nil {
		return Totals{}, err
	}

	out := Totals{LineTotals: make([]float64, len(lines))}
	subtotal := decimal.Zero
	for i, line := range lines {
		lt, err := LineTotal(line.Quantity, line.PricePerUnit, line.Discount)
		if err != nil {
			return Totals{}, fmt.Errorf("line %d: %w", i, err)
		}
		out.LineTotals[i] = lt
		subtotal = subtotal.Add(decimal.NewFromFloat(lt))
	}

	total := clampZero(subtotal.Sub(decimal.NewFromFloat(overallDiscount)).Round(cents))
	tendered := decimal.NewFromFloat(amountTendered)

	out.Subtotal = toAmount(subtotal)
	out.TotalAmount = toAmount(total)
	out.ChangeGiven = toAmount(clampZero(tendered.Sub(total)))
	if tendered.LessThan(total) {
		out.Underpaid = true
		out.Shortfall = toAmount(total.Sub(tendered))
	}
	return out, nil
}

// PriceSale fills line totals, subtotal, total and change on a sale record.
// It returns the underpayment warning when less than the total was tendered.
func PriceSale(sale *models.SaleRecord) (*models.UnderpaymentWarning, error) {
	lines := make([]Line, len(sale.Items))
	for i, item := range sale.Items {
		lines[i] = Line{Quantity: item.Quantity, PricePerUnit: item.PricePerUnit, Discount: item.ItemDiscount}
	}

	totals, err := Aggregate(lines, sale.OverallSaleDiscount, sale.PaymentDetails.AmountTendered)
	if err != nil {
		return nil, err
	}

	for i := range sale.Items {
		sale.Items[i].LineTotal = totals.LineTotals[i]
	}
	sale.SubtotalBeforeOverallDiscount = totals.Subtotal
	sale.TotalAmount = totals.TotalAmount
	sale.PaymentDetails.ChangeGiven = totals.ChangeGiven

	sale.Underpayment = nil
	if totals.Underpaid {
		sale.Underpayment = &models.UnderpaymentWarning{
			TotalAmount:    totals.TotalAmount,
			AmountTendered: sale.PaymentDetails.AmountTendered,
			Shortfall:      totals.Shortfall,
		}
	}
	return sale.Underpayment, nil
}

// PricePurchaseOrder fills line totals, subtotal and total on a purchase order.
// Purchase orders carry no tendered amount.
func PricePurchaseOrder(po *models.PurchaseOrder) error {
	lines := make([]Line, len(po.Items))
	for i, item := range po.Items {
		lines[i] = Line{Quantity: item.Quantity, PricePerUnit: item.PricePerUnit, Discount: item.ItemDiscount}
	}

	totals, err := Aggregate(lines, po.OrderDiscount, 0)
	if err != nil {
		return err
	}
	for i := range po.Items {
		po.Items[i].LineTotal = totals.LineTotals[i]
	}
	po.Subtotal = totals.Subtotal
	po.TotalAmount = totals.TotalAmount
	return nil
}

// checkAmount rejects negative and non-finite money values; decimal cannot
// represent NaN or infinities.
func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Invalid(field, "must be a finite number")
	}
	if v < 0 {
		return models.Invalid(field, "must not be negative")
	}
	return nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func toAmount(d decimal.Decimal) float64 {
	f, _ := d.Round(cents).Float64()
	return f
}
