package models

import "time"

// Plant is a catalog entry for a variety the nursery grows.
type Plant struct {
	PlantID        string    `bson:"_id" json:"plantId"`
	CommonName     string    `bson:"commonName" json:"commonName" validate:"required"`
	ScientificName string    `bson:"scientificName,omitempty" json:"scientificName,omitempty"`
	VarietyCode    string    `bson:"varietyCode" json:"varietyCode" validate:"required"`
	Category       string    `bson:"category,omitempty" json:"category,omitempty"`
	DefaultPrice   float64   `bson:"defaultPrice" json:"defaultPrice" validate:"gte=0"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// Customer is a buyer referenced weakly by sales.
type Customer struct {
	CustomerID       string    `bson:"_id" json:"customerId"`
	Name             string    `bson:"name" json:"name" validate:"required"`
	Email            string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address          string    `bson:"address,omitempty" json:"address,omitempty"`
	PaymentTermsDays int       `bson:"paymentTermsDays" json:"paymentTermsDays" validate:"gte=0,lte=365"`
	Notes            string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// ProductOrService is a non-plant sellable item.
type ProductOrService struct {
	ProductID    string    `bson:"_id" json:"productId"`
	Name         string    `bson:"name" json:"name" validate:"required"`
	ItemType     ItemType  `bson:"itemType" json:"itemType" validate:"oneof=PRODUCT SERVICE"`
	PricePerUnit float64   `bson:"pricePerUnit" json:"pricePerUnit" validate:"gte=0"`
	Unit         string    `bson:"unit,omitempty" json:"unit,omitempty"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Chemical is a registered treatment product.
type Chemical struct {
	ChemicalID       string    `bson:"_id" json:"chemicalId"`
	Name             string    `bson:"name" json:"name" validate:"required"`
	ActiveIngredient string    `bson:"activeIngredient" json:"activeIngredient" validate:"required"`
	Type             string    `bson:"type" json:"type" validate:"required"`
	SupplierID       string    `bson:"supplierId,omitempty" json:"supplierId,omitempty"`
	ReEntryHours     int       `bson:"reEntryHours" json:"reEntryHours" validate:"gte=0"`
	Notes            string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}

// ChemicalApplicationLog records a chemical applied to a batch.
type ChemicalApplicationLog struct {
	ApplicationID   string    `bson:"_id" json:"applicationId"`
	ChemicalID      string    `bson:"chemicalId" json:"chemicalId" validate:"required"`
	PlantBatchID    string    `bson:"plantBatchId" json:"plantBatchId" validate:"required"`
	ApplicationDate time.Time `bson:"applicationDate" json:"applicationDate"`
	QuantityApplied float64   `bson:"quantityApplied" json:"quantityApplied" validate:"gt=0"`
	Unit            string    `bson:"unit" json:"unit" validate:"required"`
	Applicator      string    `bson:"applicator" json:"applicator" validate:"required"`
	Notes           string    `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Supplier provides seeds, plants and goods.
type Supplier struct {
	SupplierID   string    `bson:"_id" json:"supplierId"`
	Name         string    `bson:"name" json:"name" validate:"required"`
	SupplierCode string    `bson:"supplierCode" json:"supplierCode" validate:"required"`
	ContactName  string    `bson:"contactName,omitempty" json:"contactName,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Invoice is billed from a completed sale.
type Invoice struct {
	InvoiceID     string     `bson:"_id" json:"invoiceId"`
	InvoiceNumber string     `bson:"invoiceNumber" json:"invoiceNumber"`
	SaleID        string     `bson:"saleId" json:"saleId"`
	CustomerID    *string    `bson:"customerId" json:"customerId"`
	CustomerName  string     `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Items         []SaleItem `bson:"items" json:"items"`
	Subtotal      float64    `bson:"subtotal" json:"subtotal"`
	Discount      float64    `bson:"discount" json:"discount"`
	TotalAmount   float64    `bson:"totalAmount" json:"totalAmount"`
	AmountPaid    float64    `bson:"amountPaid" json:"amountPaid"`
	BalanceDue    float64    `bson:"balanceDue" json:"balanceDue"`
	IssueDate     time.Time  `bson:"issueDate" json:"issueDate"`
	DueDate       time.Time  `bson:"dueDate" json:"dueDate"`
	Status        string     `bson:"status" json:"status"`
}

const (
	InvoicePaid   = "PAID"
	InvoiceUnpaid = "UNPAID"
)
