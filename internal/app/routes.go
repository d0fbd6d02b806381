package app

import (
	"net/http"

	"justdo/internal/cache"
	"justdo/internal/config"
	"justdo/internal/handlers"
	"justdo/internal/metrics"
	"justdo/internal/repo"
	"justdo/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Setup registers all routes on the given engine. c and m may be nil.
func Setup(r *gin.Engine, cfg config.Config, store repo.TodoRepo, c *cache.TodoCache, m *metrics.Metrics, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/v1")

	todoSvc := service.NewTodoService(store, c, m, log.Named("todo"))
	todoHandler, err := handlers.NewTodoHandler(todoSvc, log.Named("http"), cfg.Query.MaxItemsPerPage)
	if err != nil {
		return err
	}
	registerTodoRoutes(api, todoHandler)
	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "JustDo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env, "store": cfg.Store.Driver})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todo", h.Create)
	api.GET("/todo/:id", h.GetByID)
	api.PUT("/todo/:id", h.Update)
	api.DELETE("/todo/:id", h.Delete)
	api.POST("/todo/query/list", h.List)
	api.POST("/todo/query/paged", h.PagedList)
}
