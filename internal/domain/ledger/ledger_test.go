package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

func scenarioBatch() *models.PlantBatch {
	b := &models.PlantBatch{
		BatchID:                     "B1",
		SeedsSown:                   200,
		TotalSuccessfullyGerminated: 155,
		QuantityPlantedOut:          100,
		QuantityLost:                5,
		QuantitySold:                20,
		Status:                      models.StatusReadyForSale,
		QualityGrade:                models.GradeUngraded,
	}
	Recompute(b)
	return b
}

func requireConsistent(t *testing.T, b *models.PlantBatch) {
	t.Helper()
	want := b.TotalSuccessfullyGerminated - b.QuantityPlantedOut - b.QuantityLost - b.QuantitySold
	require.Equal(t, want, b.CurrentInventory)
}

func TestScenarioInventory(t *testing.T) {
	b := scenarioBatch()
	assert.Equal(t, 30, b.CurrentInventory)
	require.NotNil(t, b.CalculatedGerminationRate)
	assert.InDelta(t, 77.5, *b.CalculatedGerminationRate, 1e-9)
}

func TestCheckAvailableRejectsOversell(t *testing.T) {
	b := scenarioBatch()
	before := *b

	err := CheckAvailable(b, 35)
	require.ErrorIs(t, err, models.ErrInsufficientInventory)

	var invErr *models.InsufficientInventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "B1", invErr.BatchID)
	assert.Equal(t, 35, invErr.Requested)
	assert.Equal(t, 30, invErr.Available)
	assert.Equal(t, before, *b)
}

func TestRecordSalePartiallySold(t *testing.T) {
	b := scenarioBatch()
	require.NoError(t, CheckAvailable(b, 10))
	require.NoError(t, RecordSale(b, 10))

	assert.Equal(t, 30, b.QuantitySold)
	assert.Equal(t, 20, b.CurrentInventory)
	assert.Equal(t, models.StatusPartiallySold, b.Status)
	requireConsistent(t, b)
}

func TestRecordSaleSoldOut(t *testing.T) {
	b := scenarioBatch()
	require.NoError(t, RecordSale(b, 30))

	assert.Equal(t, 0, b.CurrentInventory)
	assert.Equal(t, models.StatusSoldOut, b.Status)
	assert.Equal(t, models.StatusReadyForSale, b.PreviousStatus)
}

func TestFinalizeGermination(t *testing.T) {
	b := &models.PlantBatch{BatchID: "B2", SeedsSown: 50, Status: models.StatusNew}
	require.NoError(t, FinalizeGermination(b, 40))

	assert.Equal(t, models.StatusGerminated, b.Status)
	assert.Equal(t, 40, b.CurrentInventory)
	require.NotNil(t, b.CalculatedGerminationRate)
	assert.InDelta(t, 80.0, *b.CalculatedGerminationRate, 1e-9)
}

func TestFinalizeGerminationWithoutSeedsLeavesRateNil(t *testing.T) {
	b := &models.PlantBatch{BatchID: "B3", Status: models.StatusNew}
	require.NoError(t, FinalizeGermination(b, 12))

	assert.Nil(t, b.CalculatedGerminationRate)
	assert.Equal(t, 12, b.CurrentInventory)
}

func TestRecordPlantingDoesNotCheckInventory(t *testing.T) {
	b := scenarioBatch()
	require.NoError(t, RecordPlanting(b, 50))

	assert.Equal(t, 150, b.QuantityPlantedOut)
	assert.Equal(t, -20, b.CurrentInventory)
	assert.Equal(t, models.StatusPlantedOut, b.Status)
	requireConsistent(t, b)
}

func TestZeroQuantityIsRejected(t *testing.T) {
	b := scenarioBatch()
	before := *b

	_, err := ApplyAdjustment(b, models.AdjustLossPest, 0)
	require.ErrorIs(t, err, models.ErrValidation)
	require.ErrorIs(t, RecordPlanting(b, 0), models.ErrValidation)
	require.ErrorIs(t, RecordSale(b, -1), models.ErrValidation)
	assert.Equal(t, before, *b)
}

func TestApplyAdjustment(t *testing.T) {
	cases := []struct {
		name       string
		status     models.BatchStatus
		adjustment models.AdjustmentType
		qty        int
		wantLost   int
		wantGerm   int
		wantWarn   bool
	}{
		{"pest loss", models.StatusReadyForSale, models.AdjustLossPest, 3, 8, 155, false},
		{"manual subtract", models.StatusReadyForSale, models.AdjustCorrectionSubtract, 2, 7, 155, false},
		{"found stock on germinated", models.StatusGerminated, models.AdjustFoundStock, 4, 5, 159, false},
		{"manual add on new", models.StatusNew, models.AdjustCorrectionAdd, 1, 5, 156, false},
		{"found stock later reduces loss", models.StatusGrowing, models.AdjustFoundStock, 3, 2, 155, false},
		{"over correction goes negative", models.StatusGrowing, models.AdjustCorrectionAdd, 8, -3, 155, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := scenarioBatch()
			b.Status = tc.status

			warning, err := ApplyAdjustment(b, tc.adjustment, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.wantLost, b.QuantityLost)
			assert.Equal(t, tc.wantGerm, b.TotalSuccessfullyGerminated)
			assert.Equal(t, tc.wantWarn, warning != "")
			requireConsistent(t, b)
		})
	}
}

func TestApplyAdjustmentRejectsUnknownTypes(t *testing.T) {
	for _, adjustment := range []models.AdjustmentType{"LOSS_FOO", "FOUND", ""} {
		b := scenarioBatch()
		_, err := ApplyAdjustment(b, adjustment, 1)
		require.ErrorIs(t, err, models.ErrValidation, string(adjustment))
		assert.Equal(t, 5, b.QuantityLost)
		assert.Equal(t, 30, b.CurrentInventory)
	}
}

func TestArchivedBatchIsFrozen(t *testing.T) {
	b := scenarioBatch()
	require.NoError(t, Archive(b))

	require.ErrorIs(t, RecordSale(b, 1), models.ErrValidation)
	require.ErrorIs(t, RecordChemicalApplication(b, "app-1"), models.ErrValidation)
	assert.Equal(t, 20, b.QuantitySold)
}

func TestRecordChemicalApplicationAppends(t *testing.T) {
	b := scenarioBatch()
	require.NoError(t, RecordChemicalApplication(b, "app-1"))
	require.NoError(t, RecordChemicalApplication(b, "app-2"))
	assert.Equal(t, []string{"app-1", "app-2"}, b.ChemicalApplicationHistory)
}
