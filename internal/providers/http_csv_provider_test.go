package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"horizonva/opsdesk/internal/constants"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

func testHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

func TestCSVGridProvider_FetchGrid_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected GET request, got %s", r.Method)
		}

		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Flight,Dep,Arr,Aircraft,Duration\nHV101,VIDP,VABB,A320,2:05\nHV102,VABB,VIDP,A320,2:10\n"))
	}))
	defer server.Close()

	provider := NewCSVGridProvider(testHTTPClient(), server.URL)

	grid, err := provider.FetchGrid(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(grid) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(grid))
	}

	if grid[1][0] != "HV101" {
		t.Errorf("Expected first data cell HV101, got %s", grid[1][0])
	}
}

func TestCSVGridProvider_FetchGrid_RaggedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Partner Feed\nFlight,Dep,Arr,Aircraft,Duration,Operator,Rank\nPX9,OMDB,VIDP,B777,3h10m\n"))
	}))
	defer server.Close()

	provider := NewCSVGridProvider(testHTTPClient(), server.URL)

	grid, err := provider.FetchGrid(context.Background())
	if err != nil {
		t.Fatalf("Expected ragged rows to parse, got %v", err)
	}

	if len(grid) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(grid))
	}

	if len(grid[0]) == len(grid[1]) {
		t.Error("Expected uneven row widths to survive parsing")
	}
}

func TestCSVGridProvider_FetchGrid_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such feed"))
	}))
	defer server.Close()

	provider := NewCSVGridProvider(testHTTPClient(), server.URL)

	_, err := provider.FetchGrid(context.Background())
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %T", err)
	}

	if provErr.Code != constants.ErrCodeSourceNotFound {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeSourceNotFound, provErr.Code)
	}
}

func TestCSVGridProvider_FetchGrid_AccessDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewCSVGridProvider(testHTTPClient(), server.URL)

	_, err := provider.FetchGrid(context.Background())

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}

	if provErr.Code != constants.ErrCodeSourceAccessDenied {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeSourceAccessDenied, provErr.Code)
	}
}

func TestCSVGridProvider_FetchGrid_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewCSVGridProvider(testHTTPClient(), server.URL)

	_, err := provider.FetchGrid(context.Background())

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}

	if provErr.Code != constants.ErrCodeSourceEmpty {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeSourceEmpty, provErr.Code)
	}
}

func TestFactory_ForSource_InactiveSource(t *testing.T) {
	factory := NewFactory(nil)

	_, err := factory.ForSource(&gormModels.RouteSource{
		Name:     "dormant feed",
		Provider: constants.ProviderHTTPCSV,
		Config:   gormModels.SourceConfig{URL: "https://example.com/feed.csv"},
		Active:   false,
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}

	if provErr.Code != constants.ErrCodeConfigInactive {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeConfigInactive, provErr.Code)
	}
}

func TestFactory_ForSource_MissingURL(t *testing.T) {
	factory := NewFactory(nil)

	_, err := factory.ForSource(&gormModels.RouteSource{
		Name:     "broken feed",
		Provider: constants.ProviderHTTPCSV,
		Active:   true,
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}

	if provErr.Code != constants.ErrCodeConfigMalformed {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeConfigMalformed, provErr.Code)
	}
}

func TestFactory_ForSource_SheetsWithoutCredentials(t *testing.T) {
	factory := NewFactory(nil)

	_, err := factory.ForSource(&gormModels.RouteSource{
		Name:     "main schedule",
		Provider: constants.ProviderGoogleSheets,
		Config:   gormModels.SourceConfig{SpreadsheetID: "abc", Range: "Routes!A1:F"},
		Active:   true,
	})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}

	if provErr.Code != constants.ErrCodeConfigMalformed {
		t.Errorf("Expected code %s, got %s", constants.ErrCodeConfigMalformed, provErr.Code)
	}
}
