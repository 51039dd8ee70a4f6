package models

import (
	"fmt"
	"time"
)

// BatchStatus is the lifecycle label of a plant batch.
type BatchStatus string

const (
	StatusNew           BatchStatus = "New"
	StatusGermination   BatchStatus = "Germination"
	StatusGerminated    BatchStatus = "Germinated"
	StatusPlantedOut    BatchStatus = "PlantedOut"
	StatusGrowing       BatchStatus = "Growing"
	StatusHarvested     BatchStatus = "Harvested"
	StatusReadyForSale  BatchStatus = "ReadyForSale"
	StatusPartiallySold BatchStatus = "PartiallySold"
	StatusSoldOut       BatchStatus = "SoldOut"
	StatusArchived      BatchStatus = "Archived"
)

var batchStatuses = map[BatchStatus]struct{}{
	StatusNew: {}, StatusGermination: {}, StatusGerminated: {}, StatusPlantedOut: {},
	StatusGrowing: {}, StatusHarvested: {}, StatusReadyForSale: {}, StatusPartiallySold: {},
	StatusSoldOut: {}, StatusArchived: {},
}

// Valid reports whether s is a known status.
func (s BatchStatus) Valid() bool {
	_, ok := batchStatuses[s]
	return ok
}

// QualityGrade is the grade assigned to a batch by inspections.
type QualityGrade string

const (
	GradeUngraded QualityGrade = "UNGRADED"
	GradeA        QualityGrade = "A"
	GradeB        QualityGrade = "B"
	GradeC        QualityGrade = "C"
	GradeRejected QualityGrade = "REJECTED"
)

// Valid reports whether g is a known grade.
func (g QualityGrade) Valid() bool {
	switch g {
	case GradeUngraded, GradeA, GradeB, GradeC, GradeRejected:
		return true
	}
	return false
}

// QCEvent is one entry of a batch's quality history.
type QCEvent struct {
	Date          time.Time    `bson:"date" json:"date"`
	EventType     string       `bson:"eventType" json:"eventType"`
	Summary       string       `bson:"summary" json:"summary"`
	GradeAssigned QualityGrade `bson:"gradeAssigned,omitempty" json:"gradeAssigned,omitempty"`
	Notes         string       `bson:"notes,omitempty" json:"notes,omitempty"`
	InspectionID  string       `bson:"inspectionId,omitempty" json:"inspectionId,omitempty"`
}

// PlantBatch is a cohort of plants tracked from sowing to sale.
type PlantBatch struct {
	BatchID           string     `bson:"_id" json:"batchId"`
	Year              int        `bson:"year" json:"year"`
	SupplierCode      string     `bson:"supplierCode" json:"supplierCode"`
	PlantVarietyCode  string     `bson:"plantVarietyCode" json:"plantVarietyCode"`
	SequenceNumber    int        `bson:"sequenceNumber" json:"sequenceNumber"`
	SourceSeedBatchID *string    `bson:"sourceSeedBatchId" json:"sourceSeedBatchId"`
	PlantID           string     `bson:"plantId,omitempty" json:"plantId,omitempty"`
	LocationID        string     `bson:"locationId,omitempty" json:"locationId,omitempty"`
	SowingDate        *time.Time `bson:"sowingDate,omitempty" json:"sowingDate,omitempty"`

	SeedsSown                   int `bson:"seedsSown" json:"seedsSown"`
	TotalSuccessfullyGerminated int `bson:"totalSuccessfullyGerminated" json:"totalSuccessfullyGerminated"`
	QuantityPlantedOut          int `bson:"quantityPlantedOut" json:"quantityPlantedOut"`
	QuantityLost                int `bson:"quantityLost" json:"quantityLost"`
	QuantitySold                int `bson:"quantitySold" json:"quantitySold"`

	CurrentInventory          int      `bson:"currentInventory" json:"currentInventory"`
	CalculatedGerminationRate *float64 `bson:"calculatedGerminationRate" json:"calculatedGerminationRate"`

	Status                     BatchStatus  `bson:"status" json:"status"`
	PreviousStatus             BatchStatus  `bson:"previousStatus,omitempty" json:"previousStatus,omitempty"`
	QualityGrade               QualityGrade `bson:"qualityGrade" json:"qualityGrade"`
	QCHistory                  []QCEvent    `bson:"qcHistory" json:"qcHistory"`
	ChemicalApplicationHistory []string     `bson:"chemicalApplicationHistory" json:"chemicalApplicationHistory"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewBatchInput carries the fields supplied when a batch is opened.
type NewBatchInput struct {
	Year              int        `json:"year" validate:"gte=2000,lte=2100"`
	SupplierCode      string     `json:"supplierCode" validate:"required"`
	PlantVarietyCode  string     `json:"plantVarietyCode" validate:"required"`
	SeedsSown         int        `json:"seedsSown" validate:"gte=0"`
	SourceSeedBatchID *string    `json:"sourceSeedBatchId,omitempty"`
	PlantID           string     `json:"plantId,omitempty"`
	LocationID        string     `json:"locationId,omitempty"`
	SowingDate        *time.Time `json:"sowingDate,omitempty"`
}

// NewPlantBatch builds a batch with zero counters. The identifier is produced
// by the caller so sequence allocation stays with the store.
func NewPlantBatch(batchID string, sequence int, in NewBatchInput, now time.Time) (*PlantBatch, error) {
	if trimmed(batchID) == "" {
		return nil, Missing("batchId")
	}
	if err := Validate(in); err != nil {
		return nil, err
	}

	return &PlantBatch{
		BatchID:                    batchID,
		Year:                       in.Year,
		SupplierCode:               in.SupplierCode,
		PlantVarietyCode:           in.PlantVarietyCode,
		SequenceNumber:             sequence,
		SourceSeedBatchID:          in.SourceSeedBatchID,
		PlantID:                    in.PlantID,
		LocationID:                 in.LocationID,
		SowingDate:                 in.SowingDate,
		SeedsSown:                  in.SeedsSown,
		Status:                     StatusNew,
		QualityGrade:               GradeUngraded,
		QCHistory:                  []QCEvent{},
		ChemicalApplicationHistory: []string{},
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}, nil
}

// InventoryFromCounters is the single definition of a batch's on-hand stock.
func (b *PlantBatch) InventoryFromCounters() int {
	return b.TotalSuccessfullyGerminated - b.QuantityPlantedOut - b.QuantityLost - b.QuantitySold
}

// Transition moves the batch to a new status. Archived batches are frozen.
func (b *PlantBatch) Transition(to BatchStatus) error {
	if !to.Valid() {
		return Invalid("status", fmt.Sprintf("unknown status %q", to))
	}
	if b.Status == StatusArchived && to != StatusArchived {
		return Invalid("status", fmt.Sprintf("batch %s is archived", b.BatchID))
	}
	if b.Status == to {
		return nil
	}
	b.PreviousStatus = b.Status
	b.Status = to
	return nil
}
