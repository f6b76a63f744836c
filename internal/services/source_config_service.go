package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/db/repositories"
	"horizonva/opsdesk/internal/logging"
	"horizonva/opsdesk/internal/metrics"
	"horizonva/opsdesk/internal/models/dtos"
	gormModels "horizonva/opsdesk/internal/models/gorm"
)

// SourceConfigService manages the route source registry the ingestion run
// reads from. Sources are keyed by name; writing an existing name updates
// it in place.
type SourceConfigService struct {
	sourceRepo *repositories.SourceRepository
	metricsReg *metrics.MetricsRegistry
}

// NewSourceConfigService creates a new source config service
func NewSourceConfigService(
	sourceRepo *repositories.SourceRepository,
	metricsReg *metrics.MetricsRegistry,
) *SourceConfigService {
	return &SourceConfigService{
		sourceRepo: sourceRepo,
		metricsReg: metricsReg,
	}
}

func (s *SourceConfigService) denial(code constants.DenialCode, message string) *dtos.Denial {
	s.metricsReg.DenialsTotal.WithLabelValues(string(code)).Inc()
	return &dtos.Denial{
		Code:     string(code),
		Category: string(constants.CategoryOf(code)),
		Message:  message,
	}
}

// List returns every configured source, active or not.
func (s *SourceConfigService) List(ctx context.Context) ([]dtos.SourceResponse, error) {
	sources, err := s.sourceRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.SourceResponse, 0, len(sources))
	for i := range sources {
		out = append(out, sourceToResponse(&sources[i]))
	}
	return out, nil
}

// Upsert validates and stores a source config. The provider-specific half
// is checked here so a broken config is caught at write time, not on the
// next ingestion run.
func (s *SourceConfigService) Upsert(ctx context.Context, req *dtos.UpsertSourceReq) (*dtos.UpsertSourceResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return &dtos.UpsertSourceResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Source name is required"),
		}, nil
	}

	kind := constants.SourceKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind != constants.SourcePrimary && kind != constants.SourcePartner {
		return &dtos.UpsertSourceResponse{
			Denial: s.denial(constants.DenialInvalidRequest, "Kind must be primary or partner"),
		}, nil
	}

	provider := constants.ProviderKind(strings.ToLower(strings.TrimSpace(req.Provider)))
	switch provider {
	case constants.ProviderGoogleSheets:
		if strings.TrimSpace(req.SpreadsheetID) == "" || strings.TrimSpace(req.Range) == "" {
			return &dtos.UpsertSourceResponse{
				Denial: s.denial(constants.DenialInvalidRequest,
					"A google_sheets source needs spreadsheet_id and range"),
			}, nil
		}
	case constants.ProviderHTTPCSV:
		url := strings.TrimSpace(req.URL)
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			return &dtos.UpsertSourceResponse{
				Denial: s.denial(constants.DenialInvalidRequest,
					"An http_csv source needs an http(s) url"),
			}, nil
		}
	default:
		return &dtos.UpsertSourceResponse{
			Denial: s.denial(constants.DenialInvalidRequest,
				"Provider must be google_sheets or http_csv"),
		}, nil
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	source := &gormModels.RouteSource{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Provider: provider,
		Config: gormModels.SourceConfig{
			SpreadsheetID: strings.TrimSpace(req.SpreadsheetID),
			Range:         strings.TrimSpace(req.Range),
			URL:           strings.TrimSpace(req.URL),
		},
		Active: active,
	}

	if err := s.sourceRepo.Upsert(ctx, source); err != nil {
		return nil, err
	}

	logging.Info("Route source configured",
		"name", source.Name, "kind", string(source.Kind), "provider", string(source.Provider),
		"active", source.Active)

	resp := sourceToResponse(source)
	return &dtos.UpsertSourceResponse{Accepted: true, Source: &resp}, nil
}

// Delete removes a source by ID. Returns false when nothing matched.
func (s *SourceConfigService) Delete(ctx context.Context, sourceID string) (bool, error) {
	found, err := s.sourceRepo.Delete(ctx, sourceID)
	if err != nil {
		return false, err
	}
	if found {
		logging.Info("Route source deleted", "source_id", sourceID)
	}
	return found, nil
}

func sourceToResponse(source *gormModels.RouteSource) dtos.SourceResponse {
	return dtos.SourceResponse{
		ID:       source.ID,
		Name:     source.Name,
		Kind:     string(source.Kind),
		Provider: string(source.Provider),
		Active:   source.Active,
	}
}
