package models

import "time"

// AdjustmentType enumerates manual inventory corrections.
type AdjustmentType string

const (
	AdjustLossDamage         AdjustmentType = "LOSS_DAMAGE"
	AdjustLossPest           AdjustmentType = "LOSS_PEST"
	AdjustLossDisease        AdjustmentType = "LOSS_DISEASE"
	AdjustFoundStock         AdjustmentType = "FOUND_STOCK"
	AdjustCorrectionAdd      AdjustmentType = "MANUAL_CORRECTION_ADD"
	AdjustCorrectionSubtract AdjustmentType = "MANUAL_CORRECTION_SUBTRACT"
)

// IsLoss reports whether the adjustment removes plants from stock.
func (t AdjustmentType) IsLoss() bool {
	switch t {
	case AdjustLossDamage, AdjustLossPest, AdjustLossDisease, AdjustCorrectionSubtract:
		return true
	}
	return false
}

// IsGain reports whether the adjustment returns plants to stock.
func (t AdjustmentType) IsGain() bool {
	return t == AdjustFoundStock || t == AdjustCorrectionAdd
}

// InventoryAdjustment is a logged correction against one batch.
type InventoryAdjustment struct {
	AdjustmentID   string         `bson:"_id" json:"adjustmentId"`
	PlantBatchID   string         `bson:"plantBatchId" json:"plantBatchId"`
	AdjustmentType AdjustmentType `bson:"adjustmentType" json:"adjustmentType"`
	Quantity       int            `bson:"quantity" json:"quantity"`
	Reason         string         `bson:"reason" json:"reason"`
	Notes          string         `bson:"notes,omitempty" json:"notes,omitempty"`
	Warning        string         `bson:"warning,omitempty" json:"warning,omitempty"`
	AdjustedAt     time.Time      `bson:"adjustedAt" json:"adjustedAt"`
}

// AdjustmentInput is the request shape of an inventory adjustment.
type AdjustmentInput struct {
	PlantBatchID   string         `json:"plantBatchId" validate:"required"`
	AdjustmentType AdjustmentType `json:"adjustmentType" validate:"oneof=LOSS_DAMAGE LOSS_PEST LOSS_DISEASE FOUND_STOCK MANUAL_CORRECTION_ADD MANUAL_CORRECTION_SUBTRACT"`
	Quantity       int            `json:"quantity" validate:"gt=0"`
	Reason         string         `json:"reason" validate:"required"`
	Notes          string         `json:"notes,omitempty"`
}

// NewInventoryAdjustment validates the input.
func NewInventoryAdjustment(id string, in AdjustmentInput, now time.Time) (*InventoryAdjustment, error) {
	if trimmed(id) == "" {
		return nil, Missing("adjustmentId")
	}
	in.Reason = trimmed(in.Reason)
	if err := Validate(in); err != nil {
		return nil, err
	}
	return &InventoryAdjustment{
		AdjustmentID:   id,
		PlantBatchID:   trimmed(in.PlantBatchID),
		AdjustmentType: in.AdjustmentType,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		Notes:          in.Notes,
		AdjustedAt:     now,
	}, nil
}
