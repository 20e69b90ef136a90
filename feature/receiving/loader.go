package receiving

import (
	"time"

	"materials-manager/core/config"
	"materials-manager/core/storage"
	"materials-manager/feature/orders"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	reports *ReportStore
	enabled bool
}

// NewFeature wires the receiving feature from its backends: the report
// document store, the posted-batch ledger, and the orders service.
func NewFeature(cfg *config.Config, client storage.Client, ordersFeature *orders.Feature, logger *zap.Logger) *Feature {
	if client == nil || ordersFeature == nil || !ordersFeature.IsEnabled() {
		return &Feature{enabled: false}
	}

	reportStore := NewReportStore(
		client,
		cfg.Storage.Bucket,
		cfg.Storage.ReportPrefix,
		time.Duration(cfg.Storage.CacheTTLSeconds)*time.Second,
		logger,
	)
	ledger := NewLedgerStore(ordersFeature.DB())

	svc := NewService(ordersFeature.Service(), reportStore, ledger, reportStore, cfg.Server.NormalizedPrefix(), logger)
	return &Feature{
		service: svc,
		handler: NewHandler(svc),
		reports: reportStore,
		enabled: true,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "receiving"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the receiving service to sibling features and commands.
func (f *Feature) Service() *Service {
	return f.service
}

// Reports exposes the report store so sibling features can scan the full
// document index.
func (f *Feature) Reports() *ReportStore {
	return f.reports
}
