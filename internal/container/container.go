package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"serviceboard/adapters/db"
	"serviceboard/app"
	"serviceboard/domain/core"
	"serviceboard/internal/config"
	"serviceboard/internal/session"
	"serviceboard/internal/watch"
	"serviceboard/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB    *sqlx.DB
	Blobs *session.LocalBlobStore

	// Services
	Extractor *app.ExtractionService
	Latest    *session.LatestStore
	Reports   *app.ReportService

	// Inbox is nil when no inbox directory is configured.
	Inbox *watch.Inbox
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{Config: cfg, Logger: logger}, nil
}

// Init builds storage, services, the optional archive and the optional inbox.
// Failing to bootstrap the latest document is logged, not returned.
func (c *Container) Init(ctx context.Context) error {
	blobs, err := session.NewLocalBlobStore(c.Config.Storage.Dir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Blobs = blobs

	c.Extractor = app.NewExtractionService(c.Logger.Named("extract"), core.SystemClock)
	c.Latest = session.NewLatestStore(blobs, c.Extractor, c.Config.Storage.SeedDir, c.Logger.Named("latest"))

	if err := c.Latest.Bootstrap(ctx); err != nil {
		c.Logger.Warn("could not load latest report", zap.Error(err))
	}

	var repo ports.ReportRepository
	if c.Config.Database.Enabled() {
		conn, err := db.Open(ctx, c.Config.Database.Driver, c.Config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to open report archive: %w", err)
		}
		c.DB = conn
		repo = db.NewReportRepository(conn)
		c.Logger.Info("report archive enabled", zap.String("driver", c.Config.Database.Driver))
	}

	c.Reports = app.NewReportService(c.Extractor, c.Latest, repo, c.Logger.Named("reports"), core.SystemClock)

	if dir := c.Config.Storage.InboxDir; dir != "" {
		inbox, err := watch.NewInbox(dir, watch.DefaultSettle, c.ingestFromInbox, c.Logger.Named("inbox"))
		if err != nil {
			return fmt.Errorf("failed to watch inbox: %w", err)
		}
		c.Inbox = inbox
	}

	return nil
}

func (c *Container) ingestFromInbox(ctx context.Context, data []byte, filename string) error {
	_, err := c.Reports.Ingest(ctx, data, filename)
	return err
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	if c.Inbox != nil {
		if err := c.Inbox.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
