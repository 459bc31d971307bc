package service

import (
	"context"
	"sync"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/port"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// SettingsService owns the app_settings singleton. Every write is a
// read-modify-write under one mutex so concurrent admin edits do not
// overwrite each other within a process.
type SettingsService struct {
	store    port.SettingsStore
	validate *validator.Validate
	logger   *zap.Logger

	mu       sync.Mutex
	onChange []func()
}

// NewSettingsService creates the settings service.
func NewSettingsService(store port.SettingsStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:    store,
		validate: newValidator(),
		logger:   logger,
	}
}

// OnChange registers fn to run after every successful write. Register
// hooks during wiring, before the service handles requests.
func (s *SettingsService) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// Get returns the stored settings, seeding and persisting the defaults on
// first use.
func (s *SettingsService) Get(ctx context.Context) (*domain.AppSettings, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Get")
	defer span.End()

	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrSeed(ctx)
}

// loadOrSeed must be called with s.mu held.
func (s *SettingsService) loadOrSeed(ctx context.Context) (*domain.AppSettings, error) {
	current, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return current, nil
	}

	defaults := domain.DefaultSettings()
	if err := s.store.SaveSettings(ctx, &defaults); err != nil {
		return nil, err
	}
	s.logger.Info("seeded default app settings")
	return &defaults, nil
}

// Update applies an admin patch. Unknown keys never reach here: the
// handler decodes with DisallowUnknownFields.
func (s *SettingsService) Update(ctx context.Context, patch *domain.SettingsPatch) (*domain.AppSettings, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Update")
	defer span.End()

	if err := validate(s.validate, patch); err != nil {
		return nil, err
	}
	return s.Mutate(ctx, func(st *domain.AppSettings) error {
		patch.Apply(st)
		return nil
	})
}

// Mutate loads the settings, lets fn change them and saves the result.
// If fn returns an error nothing is written.
func (s *SettingsService) Mutate(ctx context.Context, fn func(*domain.AppSettings) error) (*domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadOrSeed(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(current); err != nil {
		return nil, err
	}
	if err := validate(s.validate, current); err != nil {
		return nil, err
	}
	if err := s.store.SaveSettings(ctx, current); err != nil {
		return nil, err
	}
	for _, fn := range s.onChange {
		fn()
	}
	return current, nil
}

// PaymentDetails returns the UPI details shown on the payment step.
func (s *SettingsService) PaymentDetails(ctx context.Context) domain.PaymentDetails {
	st, err := s.Get(ctx)
	if err != nil {
		s.logger.Warn("settings unavailable, using default payment details", zap.Error(err))
		d := domain.DefaultSettings()
		st = &d
	}
	return domain.PaymentDetails{
		UPIID:        st.UPIID,
		QRCodeURL:    st.QRCodeURL,
		Instructions: st.PaymentInstructions,
	}
}
