package providers

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"horizonva/opsdesk/internal/constants"
)

// CSVGridProvider implements GridProvider for plain CSV endpoints
type CSVGridProvider struct {
	client *http.Client
	url    string
}

// NewCSVGridProvider creates a provider bound to one CSV URL
func NewCSVGridProvider(client *http.Client, url string) *CSVGridProvider {
	return &CSVGridProvider{
		client: client,
		url:    url,
	}
}

// Kind returns the provider type identifier
func (p *CSVGridProvider) Kind() constants.ProviderKind {
	return constants.ProviderHTTPCSV
}

// FetchGrid downloads and parses the CSV. Rows keep whatever width the
// feed gives them; partner feeds pad rows unevenly, so the reader runs
// with FieldsPerRecord disabled.
func (p *CSVGridProvider) FetchGrid(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if err := p.handleHTTPError(resp); err != nil {
		return nil, err
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeMalformedGrid,
			Message: constants.GetErrorMessage(constants.ErrCodeMalformedGrid),
			Err:     err,
		}
	}

	if len(grid) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeSourceEmpty,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceEmpty),
			Details: p.url,
		}
	}

	return grid, nil
}

// handleHTTPError converts HTTP errors to ProviderError
func (p *CSVGridProvider) handleHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeSourceAccessDenied,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceAccessDenied),
			Details: string(body),
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeSourceNotFound,
			Message: constants.GetErrorMessage(constants.ErrCodeSourceNotFound),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeBadStatus,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
			Details: string(body),
		}
	}
}
