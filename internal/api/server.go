// internal/api/server.go
package api

import (
	"github.com/gin-gonic/gin"

	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/intent"
	"discard-copilot/internal/plan/archive"
	"discard-copilot/internal/plan/builder"
	"discard-copilot/internal/plan/engine"
)

// Server is the HTTP surface of the copilot core: parse, preview (Gate 1),
// execute with a live event stream, cancel and history.
type Server struct {
	parser  *intent.Parser
	builder *builder.Builder
	cache   *builder.PlanCache
	engine  *engine.Engine
	archive *archive.Archive
	audit   engine.EventSink
	log     logger.Logger
}

// Options carries the optional collaborators. Cache, Archive and Audit may
// be nil; the corresponding features degrade gracefully.
type Options struct {
	Cache   *builder.PlanCache
	Archive *archive.Archive
	Audit   engine.EventSink
}

func NewServer(parser *intent.Parser, planBuilder *builder.Builder, eng *engine.Engine, opts Options, log logger.Logger) *Server {
	return &Server{
		parser:  parser,
		builder: planBuilder,
		cache:   opts.Cache,
		engine:  eng,
		archive: opts.Archive,
		audit:   opts.Audit,
		log:     log,
	}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", s.health)

	v1 := router.Group("/v1")
	{
		v1.POST("/parse", s.parse)
		v1.POST("/plans", s.createPlan)
		v1.GET("/plans/:id", s.getPlan)
		v1.POST("/plans/:id/execute", s.executePlan)
		v1.POST("/plans/:id/cancel", s.cancelPlan)
		v1.GET("/sessions/:id/plans", s.sessionPlans)
		v1.GET("/sessions/:id/history", s.sessionHistory)
	}
	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
