package api

import (
	"net/http"
	"time"

	"olif/internal/assistant"
	"olif/internal/catalog"
	"olif/internal/evaluation"
	"olif/internal/logger"
	"olif/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var log = logger.GetLogger()

// Options holds the API's collaborators
type Options struct {
	Catalog   *catalog.Catalog
	Sessions  *session.Manager
	Evaluator *evaluation.Evaluator
	// Extractor is the one evaluations are run against
	Extractor      assistant.Extractor
	ModelName      string
	AllowedOrigins []string
}

// Server is the OLIF HTTP API
type Server struct {
	router *gin.Engine
	opts   Options
}

// NewServer creates a new API server instance
func NewServer(opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	router.Use(cors.New(corsCfg))

	s := &Server{router: router, opts: opts}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.POST("/sessions", s.handleCreateSession)

	// Catalog
	v1.GET("/restaurants", s.handleListRestaurants)
	v1.GET("/restaurants/:id", s.handleGetRestaurant)
	v1.GET("/categories", s.handleListCategories)
	v1.GET("/models", s.handleListModels)

	authed := v1.Group("", s.requireSession())
	{
		authed.DELETE("/sessions/current", s.handleDeleteSession)

		// Basket
		authed.GET("/basket", s.handleGetBasket)
		authed.POST("/basket/items", s.handleAddItem)
		authed.PATCH("/basket/items/:id", s.handleUpdateQuantity)
		authed.DELETE("/basket/items/:id", s.handleRemoveItem)
		authed.POST("/basket/checkout", s.handleCheckout)

		// View and role
		authed.GET("/view", s.handleGetView)
		authed.PUT("/view", s.handleNavigate)
		authed.PUT("/view/role", s.handleSetRole)
		authed.PUT("/view/panels", s.handleSetPanels)
		authed.POST("/view/restaurant/:id", s.handleOpenRestaurant)

		// Assistant
		authed.GET("/assistant/messages", s.handleListMessages)
		authed.POST("/assistant/messages", s.handleSendMessage)
		authed.POST("/assistant/voice", s.handleSendVoice)
		authed.GET("/assistant/ws", s.handleWebSocket)
		authed.GET("/recommendations", s.handleRecommendations)

		authed.GET("/receipts", s.handleListReceipts)
		authed.GET("/scenarios", s.handleListScenarios)
		authed.POST("/evaluate", s.handleEvaluate)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "OLIF API is running", "sessions": s.opts.Sessions.Len()})
}
