package providers

import (
	"context"
	"net/http"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"

	"google.golang.org/api/googleapi"
)

// SheetsGridProvider implements GridProvider for Google Sheets ranges
type SheetsGridProvider struct {
	client        *common.SheetsClient
	spreadsheetID string
	readRange     string
}

// NewSheetsGridProvider creates a provider bound to one sheet range
func NewSheetsGridProvider(client *common.SheetsClient, spreadsheetID, readRange string) *SheetsGridProvider {
	return &SheetsGridProvider{
		client:        client,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}
}

// Kind returns the provider type identifier
func (p *SheetsGridProvider) Kind() constants.ProviderKind {
	return constants.ProviderGoogleSheets
}

func (p *SheetsGridProvider) FetchGrid(ctx context.Context) ([][]string, error) {
	grid, err := p.client.ReadRange(ctx, p.spreadsheetID, p.readRange)
	if err != nil {
		return nil, p.wrapAPIError(err)
	}

	if len(grid) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeSourceEmpty,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceEmpty),
			Details: p.spreadsheetID,
		}
	}

	return grid, nil
}

// wrapAPIError converts googleapi errors to ProviderError
func (p *SheetsGridProvider) wrapAPIError(err error) error {
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}

	switch apiErr.Code {
	case http.StatusUnauthorized:
		return &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: constants.GetErrorMessage(constants.ErrCodeAuthenticationFailed),
			Details: apiErr.Message,
			Err:     err,
		}
	case http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeSourceAccessDenied,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceAccessDenied),
			Details: apiErr.Message,
			Err:     err,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeSourceNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceNotFound),
			Details: apiErr.Message,
			Err:     err,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: apiErr.Message,
			Err:     err,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeBadStatus,
			Message: constants.GetErrorMessage(constants.ErrCodeBadStatus),
			Details: apiErr.Message,
			Err:     err,
		}
	}
}
