package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// GridProvider pulls one route source's schedule as a raw cell grid.
// Interpretation of the grid (header discovery, leg parsing) happens
// downstream; a provider only moves bytes.
type GridProvider interface {
	FetchGrid(ctx context.Context) ([][]string, error)

	// Kind returns the provider type identifier
	Kind() constants.ProviderKind
}

// Factory builds the right GridProvider for a configured route source.
type Factory struct {
	sheets *common.SheetsClient
	client *http.Client
}

// NewFactory creates a provider factory. The sheets client may be nil
// when Google credentials are not configured; google_sheets sources then
// fail with a config error instead of a nil deref.
func NewFactory(sheets *common.SheetsClient) *Factory {
	return &Factory{
		sheets: sheets,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ForSource validates the source row and returns a provider bound to it.
func (f *Factory) ForSource(source *gormModels.RouteSource) (GridProvider, error) {
	if source == nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: constants.GetErrorMessage(constants.ErrCodeConfigMalformed),
			Details: "source is nil",
		}
	}

	if !source.Active {
		return nil, &ProviderError{
			Code:    constants.ErrCodeConfigInactive,
			Message: constants.GetErrorMessage(constants.ErrCodeConfigInactive),
			Details: source.Name,
		}
	}

	switch source.Provider {
	case constants.ProviderGoogleSheets:
		if f.sheets == nil {
			return nil, &ProviderError{
				Code:    constants.ErrCodeConfigMalformed,
				Message: constants.GetErrorMessage(constants.ErrCodeConfigMalformed),
				Details: "google credentials not configured",
			}
		}
		if source.Config.SpreadsheetID == "" || source.Config.Range == "" {
			return nil, &ProviderError{
				Code:    constants.ErrCodeConfigMalformed,
				Message: constants.GetErrorMessage(constants.ErrCodeConfigMalformed),
				Details: "google_sheets source needs spreadsheet_id and range",
			}
		}
		return NewSheetsGridProvider(f.sheets, source.Config.SpreadsheetID, source.Config.Range), nil

	case constants.ProviderHTTPCSV:
		if source.Config.URL == "" {
			return nil, &ProviderError{
				Code:    constants.ErrCodeConfigMalformed,
				Message: constants.GetErrorMessage(constants.ErrCodeConfigMalformed),
				Details: "http_csv source needs url",
			}
		}
		return NewCSVGridProvider(f.client, source.Config.URL), nil

	default:
		return nil, &ProviderError{
			Code:    constants.ErrCodeConfigMalformed,
			Message: constants.GetErrorMessage(constants.ErrCodeConfigMalformed),
			Details: fmt.Sprintf("unknown provider %q", source.Provider),
		}
	}
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Details)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
