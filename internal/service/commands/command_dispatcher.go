package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/pricing"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/sales"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const defaultLossReason = "reported via WhatsApp"

// HelpText lists the commands workers can send.
const HelpText = "Nursery commands:\n" +
	"/sell <batch> <qty> <price> [tendered]\n" +
	"/loss <batch> <qty> [pest|disease|reason]\n" +
	"/germinated <batch> <count>\n" +
	"/plant <batch> <qty>\n" +
	"/stock <batch>"

// BatchOperations is the part of the batch service the dispatcher drives.
type BatchOperations interface {
	FinalizeGermination(ctx context.Context, batchID string, totalGerminated int) (*models.PlantBatch, error)
	RecordPlanting(ctx context.Context, batchID string, quantity int) (*models.PlantBatch, error)
	ApplyAdjustment(ctx context.Context, batchID string, in models.AdjustmentInput) (*models.InventoryAdjustment, *models.PlantBatch, error)
}

// SaleLogger logs point-of-sale transactions.
type SaleLogger interface {
	LogSale(ctx context.Context, in models.SaleInput) (*sales.Result, error)
}

// StockReporter answers stock questions.
type StockReporter interface {
	BatchStock(ctx context.Context, batchID string) (string, error)
}

// Dispatcher executes parsed commands.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	batches BatchOperations
	sales   SaleLogger
	stock   StockReporter
	logger  *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(batches BatchOperations, saleLogger SaleLogger, stock StockReporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		batches: batches,
		sales:   saleLogger,
		stock:   stock,
		logger:  logger,
	}
}

// HandleCommand runs the command and returns the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandSell:
		return s.sell(ctx, cmd, sender)
	case models.CommandLoss:
		return s.loss(ctx, cmd, sender)
	case models.CommandGerminated:
		batchID, count, err := batchAndInt(cmd.Args)
		if err != nil {
			return "", err
		}
		b, err := s.batches.FinalizeGermination(ctx, batchID, count)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("Germination recorded for %s: %d plants.", b.BatchID, b.TotalSuccessfullyGerminated)
		if b.CalculatedGerminationRate != nil {
			message += fmt.Sprintf(" Rate %.1f%%.", *b.CalculatedGerminationRate)
		}
		return message, nil
	case models.CommandPlant:
		batchID, qty, err := batchAndInt(cmd.Args)
		if err != nil {
			return "", err
		}
		b, err := s.batches.RecordPlanting(ctx, batchID, qty)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Planted out %d from %s. %d left in batch.", qty, b.BatchID, b.CurrentInventory), nil
	case models.CommandStock:
		if len(cmd.Args) < 1 {
			return "", ErrInvalidArguments
		}
		return s.stock.BatchStock(ctx, strings.ToUpper(cmd.Args[0]))
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) sell(ctx context.Context, cmd models.Command, sender string) (string, error) {
	if len(cmd.Args) < 3 {
		return "", ErrInvalidArguments
	}
	batchID, qty, err := batchAndInt(cmd.Args[:2])
	if err != nil {
		return "", err
	}
	price, err := parseAmount(cmd.Args[2])
	if err != nil {
		return "", err
	}

	tendered, err := pricing.LineTotal(qty, price, 0)
	if err != nil {
		return "", err
	}
	if len(cmd.Args) > 3 {
		tendered, err = parseAmount(cmd.Args[3])
		if err != nil {
			return "", err
		}
	}

	res, err := s.sales.LogSale(ctx, models.SaleInput{
		Items: []models.SaleItem{{
			ItemType:     models.ItemPlantBatch,
			ItemID:       batchID,
			Quantity:     qty,
			PricePerUnit: price,
		}},
		PaymentDetails: models.PaymentDetails{PaymentType: models.PaymentCash, AmountTendered: tendered},
		Notes:          "logged via WhatsApp by " + sender,
		IdempotencyKey: cmd.MessageID,
	})
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Sale logged: %d x %s @ %.2f = %.2f.", qty, batchID, price, res.Sale.TotalAmount)
	for _, b := range res.Batches {
		message += fmt.Sprintf(" %d left (%s).", b.CurrentInventory, b.Status)
	}
	if res.Sale.PaymentDetails.ChangeGiven > 0 {
		message += fmt.Sprintf(" Change %.2f.", res.Sale.PaymentDetails.ChangeGiven)
	}
	if res.Underpayment != nil {
		message += "\nWarning: " + res.Underpayment.String()
	}
	return message, nil
}

func (s *Service) loss(ctx context.Context, cmd models.Command, sender string) (string, error) {
	if len(cmd.Args) < 2 {
		return "", ErrInvalidArguments
	}
	batchID, qty, err := batchAndInt(cmd.Args[:2])
	if err != nil {
		return "", err
	}

	adjType := models.AdjustLossDamage
	reason := defaultLossReason
	if len(cmd.Args) > 2 {
		reason = strings.Join(cmd.Args[2:], " ")
		switch strings.ToLower(cmd.Args[2]) {
		case "pest", "pests":
			adjType = models.AdjustLossPest
		case "disease":
			adjType = models.AdjustLossDisease
		}
	}

	_, b, err := s.batches.ApplyAdjustment(ctx, batchID, models.AdjustmentInput{
		AdjustmentType: adjType,
		Quantity:       qty,
		Reason:         reason,
		Notes:          "reported by " + sender,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Loss of %d recorded on %s (%s). %d left in batch.", qty, b.BatchID, adjType, b.CurrentInventory), nil
}

func batchAndInt(args []string) (string, int, error) {
	if len(args) < 2 {
		return "", 0, ErrInvalidArguments
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return "", 0, ErrInvalidArguments
	}
	return strings.ToUpper(args[0]), n, nil
}

// parseAmount accepts plain decimal money values; ParseFloat also takes
// "NaN" and "Inf", which are refused here.
func parseAmount(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidArguments
	}
	return v, nil
}
