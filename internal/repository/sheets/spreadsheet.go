package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/albaehandicraft/umkmpos/internal/config"
)

var errEmptyRange = errors.New("sheet range must not be empty")

// Repository is the slice of the Sheets API the exporters use.
type Repository interface {
	AppendRow(ctx context.Context, sheetRange string, values []any) error
	Values(ctx context.Context, sheetRange string) ([][]any, error)
}

// Spreadsheet is a single Google spreadsheet addressed by ID.
type Spreadsheet struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewSpreadsheet authenticates with the service account file in cfg.
// Extra options are appended after the credentials.
func NewSpreadsheet(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*Spreadsheet, error) {
	base := []option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}
	return newSpreadsheet(ctx, cfg.SpreadsheetID, logger, append(base, opts...)...)
}

func newSpreadsheet(ctx context.Context, spreadsheetID string, logger *zap.Logger, opts ...option.ClientOption) (*Spreadsheet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &Spreadsheet{service: service, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// AppendRow adds values as a new row after the last filled row of sheetRange.
func (s *Spreadsheet) AppendRow(ctx context.Context, sheetRange string, values []any) error {
	if sheetRange == "" {
		return errEmptyRange
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, sheetRange, &sheetsapi.ValueRange{Values: [][]any{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", sheetRange, err)
	}

	s.logger.Debug("row appended", zap.String("range", sheetRange), zap.Int("cells", len(values)))
	return nil
}

// Values reads sheetRange. Trailing empty rows and cells are omitted by the API.
func (s *Spreadsheet) Values(ctx context.Context, sheetRange string) ([][]any, error) {
	if sheetRange == "" {
		return nil, errEmptyRange
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}
