// Package supabase is the hosted backend: every store port implemented on
// top of the Supabase PostgREST API. Each collection is a table of
// {id, data} rows where data is the JSON document.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"
	"github.com/boddenberg/urbanhand-directory-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// Table names.
const (
	tableSettings    = "app_settings"
	tableProviders   = "providers"
	tablePlans       = "pricing_plans"
	tableSubmissions = "payment_submissions"
	tableOwners      = "business_owners"
	tableStats       = "business_analytics"
	tableEvents      = "user_analytics"
)

// Client wraps HTTP calls to Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		logger:         logger,
	}
}

// statusError is a non-2xx PostgREST response.
type statusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("supabase %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// exec runs fn through the circuit breaker and retry loop and maps the
// outcome onto domain errors. Client errors (4xx) are not retried.
func (c *Client) exec(ctx context.Context, collection string, fn func() error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := fn()
			var se *statusError
			if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
				return resilience.Permanent(err)
			}
			return err
		})
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &domain.ErrCircuitOpen{Service: "supabase"}
	}
	return &domain.ErrExternalService{Service: "supabase/" + collection, Err: err}
}

// Ping checks that PostgREST answers for the settings table.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, tableSettings+"?select=id&limit=1")
	return err
}
