package models

import (
	"fmt"
	"time"
)

// PurchaseOrderStatus tracks receipt of ordered goods.
type PurchaseOrderStatus string

const (
	POStatusOrdered           PurchaseOrderStatus = "Ordered"
	POStatusPartiallyReceived PurchaseOrderStatus = "PartiallyReceived"
	POStatusReceived          PurchaseOrderStatus = "Received"
	POStatusCancelled         PurchaseOrderStatus = "Cancelled"
)

// PurchaseOrderItem is one ordered line. Pricing follows sale lines.
type PurchaseOrderItem struct {
	Description      string  `bson:"description" json:"description" validate:"required"`
	ItemCode         string  `bson:"itemCode,omitempty" json:"itemCode,omitempty"`
	Quantity         int     `bson:"quantity" json:"quantity" validate:"gt=0"`
	PricePerUnit     float64 `bson:"pricePerUnit" json:"pricePerUnit" validate:"gte=0"`
	ItemDiscount     float64 `bson:"itemDiscount" json:"itemDiscount" validate:"gte=0"`
	LineTotal        float64 `bson:"lineTotal" json:"lineTotal"`
	QuantityReceived int     `bson:"quantityReceived" json:"quantityReceived"`
}

// PurchaseOrder is an order placed with a supplier.
type PurchaseOrder struct {
	PurchaseOrderID string              `bson:"_id" json:"purchaseOrderId"`
	SupplierID      string              `bson:"supplierId" json:"supplierId"`
	OrderDate       time.Time           `bson:"orderDate" json:"orderDate"`
	ExpectedDate    *time.Time          `bson:"expectedDate,omitempty" json:"expectedDate,omitempty"`
	Items           []PurchaseOrderItem `bson:"items" json:"items"`
	Subtotal        float64             `bson:"subtotal" json:"subtotal"`
	OrderDiscount   float64             `bson:"orderDiscount" json:"orderDiscount"`
	TotalAmount     float64             `bson:"totalAmount" json:"totalAmount"`
	Status          PurchaseOrderStatus `bson:"status" json:"status"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
}

// PurchaseOrderInput is the request shape of a purchase order.
type PurchaseOrderInput struct {
	SupplierID    string              `json:"supplierId" validate:"required"`
	OrderDate     *time.Time          `json:"orderDate,omitempty"`
	ExpectedDate  *time.Time          `json:"expectedDate,omitempty"`
	Items         []PurchaseOrderItem `json:"items" validate:"required,min=1,dive"`
	OrderDiscount float64             `json:"orderDiscount" validate:"gte=0"`
	Notes         string              `json:"notes,omitempty"`
}

// NewPurchaseOrder validates the input. Totals are filled by pricing.
func NewPurchaseOrder(id string, in PurchaseOrderInput, now time.Time) (*PurchaseOrder, error) {
	if trimmed(id) == "" {
		return nil, Missing("purchaseOrderId")
	}
	if err := Validate(in); err != nil {
		return nil, err
	}
	orderDate := now
	if in.OrderDate != nil && !in.OrderDate.IsZero() {
		orderDate = *in.OrderDate
	}
	items := make([]PurchaseOrderItem, len(in.Items))
	for i, item := range in.Items {
		item.QuantityReceived = 0
		items[i] = item
	}
	return &PurchaseOrder{
		PurchaseOrderID: id,
		SupplierID:      trimmed(in.SupplierID),
		OrderDate:       orderDate,
		ExpectedDate:    in.ExpectedDate,
		Items:           items,
		OrderDiscount:   in.OrderDiscount,
		Status:          POStatusOrdered,
		Notes:           in.Notes,
	}, nil
}

// ReceivedLine is one line of an incoming goods delivery.
type ReceivedLine struct {
	LineIndex        int    `bson:"lineIndex" json:"lineIndex" validate:"gte=0"`
	QuantityReceived int    `bson:"quantityReceived" json:"quantityReceived" validate:"gt=0"`
	Condition        string `bson:"condition,omitempty" json:"condition,omitempty"`
}

// IncomingGoodsLog records goods received against a purchase order.
type IncomingGoodsLog struct {
	LogID           string         `bson:"_id" json:"logId"`
	PurchaseOrderID string         `bson:"purchaseOrderId" json:"purchaseOrderId"`
	ReceivedDate    time.Time      `bson:"receivedDate" json:"receivedDate"`
	ReceivedBy      string         `bson:"receivedBy" json:"receivedBy"`
	Lines           []ReceivedLine `bson:"lines" json:"lines"`
	Notes           string         `bson:"notes,omitempty" json:"notes,omitempty"`
}

// IncomingGoodsInput is the request shape of a delivery.
type IncomingGoodsInput struct {
	ReceivedDate *time.Time     `json:"receivedDate,omitempty"`
	ReceivedBy   string         `json:"receivedBy" validate:"required"`
	Lines        []ReceivedLine `json:"lines" validate:"required,min=1,dive"`
	Notes        string         `json:"notes,omitempty"`
}

// ApplyReceipt adds received quantities to the order lines and updates its status.
func (po *PurchaseOrder) ApplyReceipt(lines []ReceivedLine) error {
	if po.Status == POStatusCancelled {
		return Invalid("status", fmt.Sprintf("purchase order %s is cancelled", po.PurchaseOrderID))
	}
	for _, line := range lines {
		if line.LineIndex < 0 || line.LineIndex >= len(po.Items) {
			return Invalid("lineIndex", fmt.Sprintf("no line %d on purchase order %s", line.LineIndex, po.PurchaseOrderID))
		}
	}
	for _, line := range lines {
		po.Items[line.LineIndex].QuantityReceived += line.QuantityReceived
	}

	complete := true
	for _, item := range po.Items {
		if item.QuantityReceived < item.Quantity {
			complete = false
			break
		}
	}
	if complete {
		po.Status = POStatusReceived
	} else {
		po.Status = POStatusPartiallyReceived
	}
	return nil
}
