package common

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient wraps the Google Sheets API behind the two operations the
// backend needs: reading a route grid and appending a ledger row. Auth is
// a long-lived refresh token; the token source re-mints access tokens as
// they expire.
type SheetsClient struct {
	svc *sheets.Service
}

// NewSheetsClient builds a client from OAuth credentials. The refresh
// token must carry the spreadsheets scope.
func NewSheetsClient(ctx context.Context, clientID, clientSecret, refreshToken string) (*SheetsClient, error) {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to init sheets service: %w", err)
	}

	return &SheetsClient{svc: svc}, nil
}

// ReadRange fetches a cell range and flattens it to strings. Sheets
// returns ragged rows; widths are preserved as-is.
func (c *SheetsClient) ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell == nil {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, fmt.Sprint(cell))
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

// AppendRow appends one row after the sheet's current data.
func (c *SheetsClient) AppendRow(ctx context.Context, spreadsheetID, sheetName string, row []interface{}) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetName, body).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	if err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}

	return nil
}
