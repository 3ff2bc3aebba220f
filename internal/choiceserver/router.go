package choiceserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chen-qa/dynamic-choice/internal/logx"
	"github.com/chen-qa/dynamic-choice/internal/requestid"
	"github.com/chen-qa/dynamic-choice/pkg/config"
	"github.com/chen-qa/dynamic-choice/pkg/param"
	"github.com/chen-qa/dynamic-choice/pkg/resolver"
)

// Options carries what the router needs besides the config. AccessLog
// defaults to Log. A nil Reload disables /admin/reload.
type Options struct {
	Registry           *param.Registry
	Resolver           *resolver.Resolver
	Log                *zerolog.Logger
	AccessLog          *zerolog.Logger
	AccessColor        bool
	AccessFormatter    *logx.AccessLogFormatter
	RequestIDHeaderKey string
	Reload             func() error
}

func NewRouter(cfg *config.Config, opts Options) *gin.Engine {
	headerKey := requestid.ResolveHeaderKey(opts.RequestIDHeaderKey)
	log := opts.Log
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	h := &handlers{reg: opts.Registry, res: opts.Resolver, reload: opts.Reload}

	r := gin.New()
	r.Use(requestid.Middleware(headerKey, log))
	if cfg.Logging.AccessLog {
		access := opts.AccessLog
		if access == nil {
			access = log
		}
		r.Use(requestLoggerWithColor(access, opts.AccessColor, headerKey, opts.AccessFormatter))
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	api.GET("/parameters", h.listParameters)
	api.GET("/parameters/:name", h.getParameter)
	api.GET("/parameters/:name/choices", h.parameterChoices)
	api.POST("/parameters/:name/value", h.bindValue)
	api.POST("/resolve", h.resolve)

	check := api.Group("/check")
	check.GET("/url", func(c *gin.Context) {
		c.JSON(http.StatusOK, param.CheckURL(c.Query("url")))
	})
	check.GET("/path", func(c *gin.Context) {
		c.JSON(http.StatusOK, param.CheckPath(c.Query("json_path")))
	})
	check.GET("/filter", func(c *gin.Context) {
		c.JSON(http.StatusOK, param.CheckFilter(c.Query("filter")))
	})

	r.GET("/admin/kinds", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"kinds": param.Kinds})
	})
	if opts.Reload != nil {
		r.POST("/admin/reload", h.reloadParameters)
	}
	return r
}
