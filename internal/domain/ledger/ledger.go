// Package ledger keeps the quantity counters of a plant batch consistent.
// Every mutation ends with Recompute, the only writer of CurrentInventory.
package ledger

import (
	"fmt"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

// Recompute derives inventory and germination rate from the counters.
func Recompute(b *models.PlantBatch) {
	b.CurrentInventory = b.InventoryFromCounters()
	b.CalculatedGerminationRate = germinationRate(b.SeedsSown, b.TotalSuccessfullyGerminated)
}

func germinationRate(sown, germinated int) *float64 {
	if sown <= 0 {
		return nil
	}
	rate := float64(germinated) / float64(sown) * 100
	return &rate
}

// FinalizeGermination records the final germinated count.
func FinalizeGermination(b *models.PlantBatch, totalGerminated int) error {
	if totalGerminated < 0 {
		return models.Invalid("totalGerminated", fmt.Sprintf("must not be negative, got %d", totalGerminated))
	}
	if err := ensureOpen(b); err != nil {
		return err
	}
	b.TotalSuccessfullyGerminated = totalGerminated
	Recompute(b)
	return b.Transition(models.StatusGerminated)
}

// RecordPlanting moves plants out of the batch. The quantity is not checked
// against the current inventory.
func RecordPlanting(b *models.PlantBatch, quantity int) error {
	if err := positive(quantity); err != nil {
		return err
	}
	if err := ensureOpen(b); err != nil {
		return err
	}
	b.QuantityPlantedOut += quantity
	Recompute(b)
	return b.Transition(models.StatusPlantedOut)
}

// CheckAvailable fails when quantity exceeds the batch's current inventory.
func CheckAvailable(b *models.PlantBatch, quantity int) error {
	if err := positive(quantity); err != nil {
		return err
	}
	if err := ensureOpen(b); err != nil {
		return err
	}
	available := b.InventoryFromCounters()
	if quantity > available {
		return &models.InsufficientInventoryError{BatchID: b.BatchID, Requested: quantity, Available: available}
	}
	return nil
}

// RecordSale deducts sold plants. Callers run CheckAvailable first.
func RecordSale(b *models.PlantBatch, quantity int) error {
	if err := positive(quantity); err != nil {
		return err
	}
	if err := ensureOpen(b); err != nil {
		return err
	}
	b.QuantitySold += quantity
	Recompute(b)
	return b.Transition(saleStatus(b))
}

func saleStatus(b *models.PlantBatch) models.BatchStatus {
	switch {
	case b.CurrentInventory <= 0 && b.QuantitySold > 0:
		return models.StatusSoldOut
	case b.QuantitySold > 0 && b.CurrentInventory > 0:
		return models.StatusPartiallySold
	default:
		return b.Status
	}
}

// ApplyAdjustment applies a manual correction. Gains on batches past
// germination reduce QuantityLost, which can go negative; that case is
// reported through the returned warning and left as is.
func ApplyAdjustment(b *models.PlantBatch, adjustment models.AdjustmentType, quantity int) (string, error) {
	if err := positive(quantity); err != nil {
		return "", err
	}
	if err := ensureOpen(b); err != nil {
		return "", err
	}

	var warning string
	switch {
	case adjustment.IsLoss():
		b.QuantityLost += quantity
	case adjustment.IsGain():
		if b.Status == models.StatusNew || b.Status == models.StatusGerminated {
			b.TotalSuccessfullyGerminated += quantity
		} else {
			b.QuantityLost -= quantity
			if b.QuantityLost < 0 {
				warning = fmt.Sprintf("batch %s: quantityLost is negative (%d) after %s of %d", b.BatchID, b.QuantityLost, adjustment, quantity)
			}
		}
	default:
		return "", models.Invalid("adjustmentType", fmt.Sprintf("unknown adjustment type %q", adjustment))
	}

	Recompute(b)
	return warning, nil
}

// RecordChemicalApplication links an application log to the batch.
func RecordChemicalApplication(b *models.PlantBatch, applicationID string) error {
	if applicationID == "" {
		return models.Missing("applicationId")
	}
	if err := ensureOpen(b); err != nil {
		return err
	}
	b.ChemicalApplicationHistory = append(b.ChemicalApplicationHistory, applicationID)
	return nil
}

// Archive closes the batch for further mutation.
func Archive(b *models.PlantBatch) error {
	return b.Transition(models.StatusArchived)
}

func positive(quantity int) error {
	if quantity <= 0 {
		return models.Invalid("quantity", fmt.Sprintf("must be greater than zero, got %d", quantity))
	}
	return nil
}

func ensureOpen(b *models.PlantBatch) error {
	if b == nil {
		return models.Missing("batch")
	}
	if b.Status == models.StatusArchived {
		return models.Invalid("status", fmt.Sprintf("batch %s is archived", b.BatchID))
	}
	return nil
}
