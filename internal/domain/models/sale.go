package models

import (
	"fmt"
	"strings"
	"time"
)

// ItemType distinguishes what a sale or order line refers to.
type ItemType string

const (
	ItemPlantBatch ItemType = "PLANT_BATCH"
	ItemProduct    ItemType = "PRODUCT"
	ItemService    ItemType = "SERVICE"
)

// PaymentType enumerates accepted tender types.
type PaymentType string

const (
	PaymentCash   PaymentType = "CASH"
	PaymentCard   PaymentType = "CARD"
	PaymentMobile PaymentType = "MOBILE"
	PaymentCredit PaymentType = "CREDIT"
)

// SaleItem is one line of a sale. ItemID is a batch id for PLANT_BATCH lines
// and a product id otherwise.
type SaleItem struct {
	ItemType     ItemType `bson:"itemType" json:"itemType" validate:"oneof=PLANT_BATCH PRODUCT SERVICE"`
	ItemID       string   `bson:"itemId" json:"itemId" validate:"required"`
	ItemName     string   `bson:"itemName" json:"itemName"`
	Quantity     int      `bson:"quantity" json:"quantity" validate:"gt=0"`
	PricePerUnit float64  `bson:"pricePerUnit" json:"pricePerUnit" validate:"gte=0"`
	ItemDiscount float64  `bson:"itemDiscount" json:"itemDiscount" validate:"gte=0"`
	LineTotal    float64  `bson:"lineTotal" json:"lineTotal"`
}

// PaymentDetails records how a sale was settled.
type PaymentDetails struct {
	PaymentType          PaymentType `bson:"paymentType" json:"paymentType" validate:"oneof=CASH CARD MOBILE CREDIT"`
	AmountTendered       float64     `bson:"amountTendered" json:"amountTendered" validate:"gte=0"`
	ChangeGiven          float64     `bson:"changeGiven" json:"changeGiven"`
	TransactionReference *string     `bson:"transactionReference" json:"transactionReference"`
}

// SaleRecord is a finalized point-of-sale transaction.
type SaleRecord struct {
	SaleID                        string               `bson:"_id" json:"saleId"`
	SaleDate                      time.Time            `bson:"saleDate" json:"saleDate"`
	CustomerID                    *string              `bson:"customerId" json:"customerId"`
	Items                         []SaleItem           `bson:"items" json:"items"`
	SubtotalBeforeOverallDiscount float64              `bson:"subtotalBeforeOverallDiscount" json:"subtotalBeforeOverallDiscount"`
	OverallSaleDiscount           float64              `bson:"overallSaleDiscount" json:"overallSaleDiscount"`
	TotalAmount                   float64              `bson:"totalAmount" json:"totalAmount"`
	PaymentDetails                PaymentDetails       `bson:"paymentDetails" json:"paymentDetails"`
	Underpayment                  *UnderpaymentWarning `bson:"underpayment,omitempty" json:"underpayment,omitempty"`
	InvoiceID                     string               `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`
	Notes                         string               `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt                     time.Time            `bson:"createdAt" json:"createdAt"`
}

// SaleInput is the request shape used to log a sale.
type SaleInput struct {
	SaleDate            *time.Time     `json:"saleDate,omitempty"`
	CustomerID          *string        `json:"customerId,omitempty"`
	Items               []SaleItem     `json:"items" validate:"required,min=1,dive"`
	OverallSaleDiscount float64        `json:"overallSaleDiscount" validate:"gte=0"`
	PaymentDetails      PaymentDetails `json:"paymentDetails"`
	Notes               string         `json:"notes,omitempty"`
	IdempotencyKey      string         `json:"-"`
}

// NewSaleRecord validates the input and returns a record with defaults
// applied. Monetary totals are left for the pricing step.
func NewSaleRecord(id string, in SaleInput, now time.Time) (*SaleRecord, error) {
	if trimmed(id) == "" {
		return nil, Missing("saleId")
	}
	if in.PaymentDetails.PaymentType == "" {
		in.PaymentDetails.PaymentType = PaymentCash
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	items := make([]SaleItem, len(in.Items))
	for i, item := range in.Items {
		item.ItemID = strings.TrimSpace(item.ItemID)
		if item.ItemID == "" {
			return nil, Missing(fmt.Sprintf("items[%d].itemId", i))
		}
		if item.ItemName == "" {
			item.ItemName = item.ItemID
		}
		items[i] = item
	}

	saleDate := now
	if in.SaleDate != nil && !in.SaleDate.IsZero() {
		saleDate = *in.SaleDate
	}

	var customerID *string
	if in.CustomerID != nil && trimmed(*in.CustomerID) != "" {
		c := trimmed(*in.CustomerID)
		customerID = &c
	}

	return &SaleRecord{
		SaleID:              id,
		SaleDate:            saleDate,
		CustomerID:          customerID,
		Items:               items,
		OverallSaleDiscount: in.OverallSaleDiscount,
		PaymentDetails:      in.PaymentDetails,
		Notes:               in.Notes,
		CreatedAt:           now,
	}, nil
}

// BatchQuantities sums plant-batch quantities per batch id, keeping first-seen order.
func (s *SaleRecord) BatchQuantities() ([]string, map[string]int) {
	order := make([]string, 0, len(s.Items))
	totals := make(map[string]int)
	for _, item := range s.Items {
		if item.ItemType != ItemPlantBatch {
			continue
		}
		if _, seen := totals[item.ItemID]; !seen {
			order = append(order, item.ItemID)
		}
		totals[item.ItemID] += item.Quantity
	}
	return order, totals
}
