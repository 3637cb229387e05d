package transport

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/portfolio/projects-api/internal/metrics"
	portcache "github.com/portfolio/projects-api/internal/port/cache"
	"github.com/portfolio/projects-api/internal/service/importer"
	projectsvc "github.com/portfolio/projects-api/internal/service/project"
	projecthandler "github.com/portfolio/projects-api/internal/transport/project"
	wshandler "github.com/portfolio/projects-api/internal/transport/ws"
)

const ServiceName = "projects-api"

type Options struct {
	Logger     *zap.Logger
	Version    string
	ProjectSvc *projectsvc.Service
	// Importer is optional; nil leaves /api/projects/import unregistered.
	Importer *importer.Service
	Hub      *wshandler.Hub
	// MCP is optional.
	MCP http.Handler

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	IdempotencyCache portcache.Cache
	UploadLimiter    *RateLimiter
}

func NewRouter(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	log := opts.Logger

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong!"})
	}))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", IdempotencyHeader, RequestIDHeader},
		ExposeHeaders:   []string{RequestIDHeader},
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Portfolio API Running...")
	})
	NewHealthHandler(ServiceName, opts.Version, opts.ProjectSvc).RegisterRoutes(r)
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	projectOpts := projecthandler.Options{
		Importer: opts.Importer,
		Metrics:  opts.Metrics,
	}
	if opts.IdempotencyCache != nil {
		projectOpts.CreateMiddleware = append(projectOpts.CreateMiddleware, Idempotency(opts.IdempotencyCache, log))
	}
	if opts.UploadLimiter != nil {
		projectOpts.UploadMiddleware = append(projectOpts.UploadMiddleware, opts.UploadLimiter.Middleware())
	}
	projecthandler.Register(api.Group("/projects"), opts.ProjectSvc, log, projectOpts)

	if opts.Hub != nil {
		opts.Hub.Register(api)
	}
	if opts.MCP != nil {
		r.Any("/mcp", gin.WrapH(opts.MCP))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	return r
}
