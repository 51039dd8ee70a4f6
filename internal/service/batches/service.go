package batches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/batchcode"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/ledger"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/qc"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

// AdjustmentExporter mirrors adjustments to an external ledger.
type AdjustmentExporter interface {
	ExportAdjustment(ctx context.Context, adj models.InventoryAdjustment) error
}

// Service runs every batch lifecycle operation as a read-modify-write
// against the document store.
type Service struct {
	store    store.Store
	exporter AdjustmentExporter
	policy   qc.GradePolicy
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithExporter mirrors adjustments through exp after they are committed.
func WithExporter(exp AdjustmentExporter) Option {
	return func(s *Service) { s.exporter = exp }
}

// WithGradePolicy replaces the default inspection grading heuristic.
func WithGradePolicy(policy qc.GradePolicy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a batch service.
func NewService(st store.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  st,
		policy: qc.DefaultPolicy{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBatch opens a batch under the next free sequence for its year,
// supplier and variety.
func (s *Service) CreateBatch(ctx context.Context, in models.NewBatchInput) (*models.PlantBatch, error) {
	in.SupplierCode = strings.ToUpper(strings.TrimSpace(in.SupplierCode))
	in.PlantVarietyCode = strings.ToUpper(strings.TrimSpace(in.PlantVarietyCode))
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	var created *models.PlantBatch
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		if in.PlantID != "" {
			if _, err := store.Load[models.Plant](ctx, tx, store.Plants, in.PlantID); err != nil {
				return err
			}
		}

		existing, err := store.List[models.PlantBatch](ctx, tx, store.Batches, store.Filter{
			"year":             in.Year,
			"supplierCode":     in.SupplierCode,
			"plantVarietyCode": in.PlantVarietyCode,
		})
		if err != nil {
			return fmt.Errorf("list sibling batches: %w", err)
		}

		seq := batchcode.NextSequence(existing, in.Year, in.SupplierCode, in.PlantVarietyCode)
		id, err := batchcode.Generate(in.Year, in.SupplierCode, in.PlantVarietyCode, seq)
		if err != nil {
			return err
		}

		batch, err := models.NewPlantBatch(id, seq, in, s.now())
		if err != nil {
			return err
		}
		ledger.Recompute(batch)
		if err := tx.Set(ctx, store.Batches, batch.BatchID, batch); err != nil {
			return fmt.Errorf("save batch %s: %w", batch.BatchID, err)
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch created", zap.String("batch_id", created.BatchID), zap.Int("seeds_sown", created.SeedsSown))
	return created, nil
}

// GetBatch loads one batch.
func (s *Service) GetBatch(ctx context.Context, batchID string) (*models.PlantBatch, error) {
	return store.Load[models.PlantBatch](ctx, s.store, store.Batches, normalizeID(batchID))
}

// ListBatches returns all batches, or only those in status when it is set.
func (s *Service) ListBatches(ctx context.Context, status models.BatchStatus) ([]models.PlantBatch, error) {
	var filter store.Filter
	if status != "" {
		if !status.Valid() {
			return nil, models.Invalid("status", fmt.Sprintf("unknown status %q", status))
		}
		filter = store.Filter{"status": status}
	}
	return store.List[models.PlantBatch](ctx, s.store, store.Batches, filter)
}

// FinalizeGermination records the germinated count of a batch.
func (s *Service) FinalizeGermination(ctx context.Context, batchID string, totalGerminated int) (*models.PlantBatch, error) {
	return s.mutate(ctx, batchID, func(_ context.Context, _ store.Store, b *models.PlantBatch) error {
		return ledger.FinalizeGermination(b, totalGerminated)
	})
}

// RecordPlanting records plants moved out of the batch.
func (s *Service) RecordPlanting(ctx context.Context, batchID string, quantity int) (*models.PlantBatch, error) {
	return s.mutate(ctx, batchID, func(_ context.Context, _ store.Store, b *models.PlantBatch) error {
		return ledger.RecordPlanting(b, quantity)
	})
}

// UpdateStatus sets a lifecycle label such as Growing or ReadyForSale.
func (s *Service) UpdateStatus(ctx context.Context, batchID string, status models.BatchStatus) (*models.PlantBatch, error) {
	return s.mutate(ctx, batchID, func(_ context.Context, _ store.Store, b *models.PlantBatch) error {
		return b.Transition(status)
	})
}

// Archive freezes a batch.
func (s *Service) Archive(ctx context.Context, batchID string) (*models.PlantBatch, error) {
	return s.mutate(ctx, batchID, func(_ context.Context, _ store.Store, b *models.PlantBatch) error {
		return ledger.Archive(b)
	})
}

// ApplyAdjustment logs an inventory correction and applies it to the batch.
// A gain that drives quantityLost negative is kept and reported in the
// adjustment's Warning.
func (s *Service) ApplyAdjustment(ctx context.Context, batchID string, in models.AdjustmentInput) (*models.InventoryAdjustment, *models.PlantBatch, error) {
	in.PlantBatchID = normalizeID(batchID)
	adj, err := models.NewInventoryAdjustment(uuid.NewString(), in, s.now())
	if err != nil {
		return nil, nil, err
	}

	batch, err := s.mutate(ctx, in.PlantBatchID, func(ctx context.Context, tx store.Store, b *models.PlantBatch) error {
		warning, err := ledger.ApplyAdjustment(b, adj.AdjustmentType, adj.Quantity)
		if err != nil {
			return err
		}
		adj.Warning = warning
		if err := tx.Set(ctx, store.Inventory, adj.AdjustmentID, adj); err != nil {
			return fmt.Errorf("save adjustment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if adj.Warning != "" {
		s.logger.Warn("inventory adjustment left negative loss count",
			zap.String("batch_id", batch.BatchID),
			zap.Int("quantity_lost", batch.QuantityLost),
			zap.String("adjustment_id", adj.AdjustmentID),
		)
	}
	if s.exporter != nil {
		if err := s.exporter.ExportAdjustment(ctx, *adj); err != nil {
			s.logger.Error("failed to export adjustment", zap.String("adjustment_id", adj.AdjustmentID), zap.Error(err))
		}
	}
	return adj, batch, nil
}

// RecordChemicalApplication logs a treatment of the batch with a registered chemical.
func (s *Service) RecordChemicalApplication(ctx context.Context, batchID string, entry models.ChemicalApplicationLog) (*models.ChemicalApplicationLog, error) {
	entry.ApplicationID = uuid.NewString()
	entry.PlantBatchID = normalizeID(batchID)
	entry.ChemicalID = strings.TrimSpace(entry.ChemicalID)
	if entry.ApplicationDate.IsZero() {
		entry.ApplicationDate = s.now()
	}
	if err := models.Validate(entry); err != nil {
		return nil, err
	}

	_, err := s.mutate(ctx, entry.PlantBatchID, func(ctx context.Context, tx store.Store, b *models.PlantBatch) error {
		if _, err := store.Load[models.Chemical](ctx, tx, store.Chemicals, entry.ChemicalID); err != nil {
			return err
		}
		if err := ledger.RecordChemicalApplication(b, entry.ApplicationID); err != nil {
			return err
		}
		if err := tx.Set(ctx, store.ChemicalApplications, entry.ApplicationID, entry); err != nil {
			return fmt.Errorf("save chemical application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chemical applied",
		zap.String("batch_id", entry.PlantBatchID),
		zap.String("chemical_id", entry.ChemicalID),
		zap.Float64("quantity", entry.QuantityApplied),
	)
	return &entry, nil
}

// RecordInspection stores an inspection. Batch inspections are appended to
// the batch's quality history and graded by the service's policy.
func (s *Service) RecordInspection(ctx context.Context, in models.InspectionInput) (*models.Inspection, error) {
	inspection, err := models.NewInspection(uuid.NewString(), in, s.now())
	if err != nil {
		return nil, err
	}
	if inspection.PlantBatchID != nil {
		id := normalizeID(*inspection.PlantBatchID)
		inspection.PlantBatchID = &id
	}

	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		if inspection.PlantBatchID != nil {
			batch, err := store.Load[models.PlantBatch](ctx, tx, store.Batches, *inspection.PlantBatchID)
			if err != nil {
				return err
			}
			_, grade := qc.RecordInspection(batch, *inspection, s.policy)
			inspection.GradeAssigned = grade
			batch.UpdatedAt = s.now()
			if err := tx.Set(ctx, store.Batches, batch.BatchID, batch); err != nil {
				return fmt.Errorf("save batch %s: %w", batch.BatchID, err)
			}
		}
		if err := tx.Set(ctx, store.Inspections, inspection.InspectionID, inspection); err != nil {
			return fmt.Errorf("save inspection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("inspection recorded",
		zap.String("inspection_id", inspection.InspectionID),
		zap.String("outcome", string(inspection.OverallStatus)),
		zap.String("grade", string(inspection.GradeAssigned)),
	)
	return inspection, nil
}

// ListInspections returns the inspections recorded against a batch.
func (s *Service) ListInspections(ctx context.Context, batchID string) ([]models.Inspection, error) {
	return store.List[models.Inspection](ctx, s.store, store.Inspections, store.Filter{"plantBatchId": normalizeID(batchID)})
}

func (s *Service) mutate(ctx context.Context, batchID string, fn func(ctx context.Context, tx store.Store, b *models.PlantBatch) error) (*models.PlantBatch, error) {
	id := normalizeID(batchID)
	if id == "" {
		return nil, models.Missing("batchId")
	}

	var updated *models.PlantBatch
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		batch, err := store.Load[models.PlantBatch](ctx, tx, store.Batches, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, batch); err != nil {
			return err
		}
		batch.UpdatedAt = s.now()
		if err := tx.Set(ctx, store.Batches, batch.BatchID, batch); err != nil {
			return fmt.Errorf("save batch %s: %w", batch.BatchID, err)
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// normalizeID uppercases batch identifiers; Generate only produces uppercase codes.
func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
