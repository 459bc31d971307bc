package service

import (
	"sync"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/observability"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ModerationService is the admin write side of the catalog: categories,
// listings and pricing plans. Every successful write invalidates the public
// read model before returning.
type ModerationService struct {
	settings  *SettingsService
	catalog   *CatalogService
	providers port.ProviderStore
	plans     port.PlanStore
	seq       port.IDSequence
	validate  *validator.Validate
	metrics   *observability.Metrics
	logger    *zap.Logger

	plansMu sync.Mutex
}

// NewModerationService creates the admin moderation service.
func NewModerationService(
	settings *SettingsService,
	catalog *CatalogService,
	providers port.ProviderStore,
	plans port.PlanStore,
	seq port.IDSequence,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ModerationService {
	return &ModerationService{
		settings:  settings,
		catalog:   catalog,
		providers: providers,
		plans:     plans,
		seq:       seq,
		validate:  newValidator(),
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *ModerationService) written(entity string) {
	s.catalog.Invalidate()
	s.metrics.IncrCatalogWrite(entity)
}

func hasCategory(st *domain.AppSettings, name string) bool {
	for _, c := range st.ServiceCategories {
		if c.Name == name {
			return true
		}
	}
	return false
}
