package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Grupolom/lomarosa-dashboard/internal/api"
	"github.com/Grupolom/lomarosa-dashboard/internal/config"
	"github.com/Grupolom/lomarosa-dashboard/internal/importer"
	"github.com/Grupolom/lomarosa-dashboard/internal/store"
)

// Server servidor HTTP del dashboard
type Server struct {
	router *gin.Engine
	store  *store.Store
	log    *zap.Logger
}

// NewServer crea el servidor con su store y API
func NewServer(cfg *config.AppConfig, log *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "lomarosa.db")

	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("no se pudo inicializar la base de datos: %w", err)
	}

	coordinador := importer.NewCoordinator(cfg, st, log)
	handler := api.NewHandler(cfg, st, coordinador, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	router.Use(cors())

	grupo := router.Group("/api")
	handler.RegisterRoutes(grupo)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"app":     "Dashboard de Inventario - Lomarosa",
			"empresa": "Inversiones Agropecuarias Lom SAS",
		})
	})

	return &Server{
		router: router,
		store:  st,
		log:    log,
	}, nil
}

// Run inicia el servidor
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close libera los recursos del servidor
func (s *Server) Close() error {
	return s.store.Close()
}

// Router expone el engine (para pruebas)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// cors middleware de CORS para el frontend del dashboard
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger middleware de logging estructurado de peticiones
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		log.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
