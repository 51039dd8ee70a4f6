package models

import "time"

// DailyReport is the aggregated daily snapshot stored in MongoDB.
type DailyReport struct {
	ReportID        string    `bson:"_id" json:"reportId"`
	Date            time.Time `bson:"date" json:"date"`
	SalesCount      int       `bson:"salesCount" json:"salesCount"`
	Revenue         float64   `bson:"revenue" json:"revenue"`
	Discounts       float64   `bson:"discounts" json:"discounts"`
	UnpaidBalance   float64   `bson:"unpaidBalance" json:"unpaidBalance"`
	PlantsSold      int       `bson:"plantsSold" json:"plantsSold"`
	PlantsOnHand    int       `bson:"plantsOnHand" json:"plantsOnHand"`
	ActiveBatches   int       `bson:"activeBatches" json:"activeBatches"`
	LowStockBatches []string  `bson:"lowStockBatches" json:"lowStockBatches"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// InventorySummary aggregates batch stock by status.
type InventorySummary struct {
	TotalOnHand     int                 `json:"totalOnHand"`
	BatchesByStatus map[BatchStatus]int `json:"batchesByStatus"`
	LowStock        []PlantBatch        `json:"lowStock"`
	Threshold       int                 `json:"threshold"`
}

// SalesSummary aggregates sales over a period.
type SalesSummary struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	SalesCount     int       `json:"salesCount"`
	Revenue        float64   `json:"revenue"`
	Discounts      float64   `json:"discounts"`
	PlantsSold     int       `json:"plantsSold"`
	UnderpaidSales int       `json:"underpaidSales"`
	UnpaidBalance  float64   `json:"unpaidBalance"`
}
