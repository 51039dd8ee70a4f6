package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
)

// Repository is the slice of the Sheets API the bookkeeper needs.
type Repository interface {
	// AppendRow adds one row after the last filled row of sheetRange.
	AppendRow(ctx context.Context, sheetRange string, values []interface{}) error
	// ReadColumn returns the cells of a single-column range as text, top to bottom.
	ReadColumn(ctx context.Context, columnRange string) ([]string, error)
}

// GoogleSheetRepository talks to one spreadsheet through the Sheets v4 API.
type GoogleSheetRepository struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with a service account key file.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id must not be empty")
	}

	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger.With(zap.String("spreadsheet_id", cfg.SpreadsheetID)),
	}, nil
}

// AppendRow inserts a new row; values are parsed as if typed by a user so
// dates and amounts keep their cell types.
func (r *GoogleSheetRepository) AppendRow(ctx context.Context, sheetRange string, values []interface{}) error {
	body := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: [][]interface{}{values}}

	resp, err := r.values.Append(r.spreadsheetID, sheetRange, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheetRange, err)
	}

	if resp.Updates != nil {
		r.logger.Debug("sheet row appended", zap.String("range", resp.Updates.UpdatedRange))
	}
	return nil
}

// ReadColumn reads columnRange column-major and flattens the first column.
func (r *GoogleSheetRepository) ReadColumn(ctx context.Context, columnRange string) ([]string, error) {
	resp, err := r.values.Get(r.spreadsheetID, columnRange).
		MajorDimension("COLUMNS").
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", columnRange, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	cells := make([]string, len(resp.Values[0]))
	for i, v := range resp.Values[0] {
		cells[i] = fmt.Sprint(v)
	}
	return cells, nil
}
