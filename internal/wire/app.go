package wire

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/adapter/cloudinary"
	"github.com/portfolio/projects-api/internal/adapter/github"
	"github.com/portfolio/projects-api/internal/adapter/memory"
	"github.com/portfolio/projects-api/internal/adapter/mongodb"
	mongoproject "github.com/portfolio/projects-api/internal/adapter/mongodb/project"
	pgdb "github.com/portfolio/projects-api/internal/adapter/postgres"
	pgproject "github.com/portfolio/projects-api/internal/adapter/postgres/project"
	redisadapter "github.com/portfolio/projects-api/internal/adapter/redis"
	s3adapter "github.com/portfolio/projects-api/internal/adapter/s3"
	"github.com/portfolio/projects-api/internal/config"
	"github.com/portfolio/projects-api/internal/metrics"
	portcache "github.com/portfolio/projects-api/internal/port/cache"
	portmedia "github.com/portfolio/projects-api/internal/port/media"
	portproject "github.com/portfolio/projects-api/internal/port/project"
	"github.com/portfolio/projects-api/internal/service/importer"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
	"github.com/portfolio/projects-api/internal/transport"
	mcptransport "github.com/portfolio/projects-api/internal/transport/mcp"
	wshandler "github.com/portfolio/projects-api/internal/transport/ws"
)

const connectTimeout = 10 * time.Second

// App holds the top-level resources needed to run and gracefully stop the server.
type App struct {
	Server *http.Server
	Hub    *wshandler.Hub

	closers []func(context.Context) error
}

// Close releases store and cache connections in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	a.Hub.Close()
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build is the composition root: the only place concrete types are wired to their
// interface dependencies.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close(context.Background())
		return nil, err
	}
	app.Hub = wshandler.NewHub(log.Named("ws"))

	// ── Record store ──────────────────────────────────────────────────────────
	repo, err := buildStore(ctx, cfg, log, app)
	if err != nil {
		return fail(err)
	}

	// ── Media store ───────────────────────────────────────────────────────────
	media, err := buildMedia(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	// ── Idempotency cache ─────────────────────────────────────────────────────
	var cache portcache.Cache = memory.NewCache()
	if cfg.Redis.URL != "" {
		rdb, err := redisadapter.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fail(fmt.Errorf("connecting to redis: %w", err))
		}
		app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
		cache = redisadapter.NewCache(rdb, "projects-api:idempotency:")
		log.Info("idempotency cache: redis")
	}

	// ── Services ──────────────────────────────────────────────────────────────
	projectSvc := projectsvc.NewService(repo, media, app.Hub, log.Named("project"), cfg.Media.Folder)

	var importSvc *importer.Service
	if cfg.GitHub.ImportEnabled {
		importSvc = importer.NewService(github.NewClient(cfg.GitHub.Token), projectSvc)
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	mcpServer := mcptransport.New(projectSvc, cfg.App.Version, m, log.Named("mcp"))

	// ── Transport ─────────────────────────────────────────────────────────────
	router := transport.NewRouter(transport.Options{
		Logger:           log,
		Version:          cfg.App.Version,
		ProjectSvc:       projectSvc,
		Importer:         importSvc,
		Hub:              app.Hub,
		MCP:              mcpServer.Handler(),
		Metrics:          m,
		Gatherer:         reg,
		IdempotencyCache: cache,
		UploadLimiter:    transport.NewRateLimiter(cfg.Server.UploadRatePerSec, cfg.Server.UploadBurst),
	})

	app.Server = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("application wired",
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("media", cfg.Media.Driver),
		zap.Bool("github_import", importSvc != nil),
	)
	return app, nil
}

func buildStore(ctx context.Context, cfg *config.Config, log *zap.Logger, app *App) (portproject.Repository, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		client, err := mongodb.Connect(cctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		app.closers = append(app.closers, client.Disconnect)

		repo := mongoproject.New(client, cfg.Store.MongoDatabase)
		if err := repo.EnsureIndexes(cctx); err != nil {
			return nil, fmt.Errorf("ensuring indexes: %w", err)
		}
		return repo, nil

	case config.StorePostgres:
		pool, err := pgdb.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		app.closers = append(app.closers, func(context.Context) error { pool.Close(); return nil })

		if err := pgdb.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		return pgproject.New(pool), nil

	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		return memory.NewProjectRepository(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func buildMedia(ctx context.Context, cfg *config.Config) (portmedia.Store, error) {
	switch cfg.Media.Driver {
	case config.MediaCloudinary:
		store, err := cloudinary.New(cfg.Media.CloudinaryCloudName, cfg.Media.CloudinaryAPIKey, cfg.Media.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.MediaS3:
		store, err := s3adapter.New(ctx, cfg.Media.S3Bucket, cfg.Media.S3Region, cfg.Media.S3PublicBaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown media driver %q", cfg.Media.Driver)
}
