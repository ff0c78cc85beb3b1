package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/zipconsole/api/controllers"
	"github.com/moyoez/zipconsole/api/middlewares"
	"github.com/moyoez/zipconsole/api/models"
	"github.com/moyoez/zipconsole/tool"
)

// Server represents the local console HTTP API.
type Server struct {
	port   int
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer creates a new API server instance listening on 127.0.0.1:port.
func NewServer(port int) *Server {
	return &Server{port: port}
}

// Engine builds the gin engine with every console route.
func Engine() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.AllowAllCORS())
	engine.Use(middlewares.OnlyAllowLocal)
	if m := models.GetMetrics(); m != nil {
		engine.Use(m.GinMiddleware())
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}

	console := engine.Group("/api/console/v1")
	{
		console.GET("/status", controllers.ConsoleStatus)
		console.GET("/config", controllers.ConsoleConfigGet)
		console.PATCH("/config", controllers.ConsoleConfigPatch)
		console.POST("/session", controllers.SessionCreate)
		console.GET("/session", controllers.SessionGet)
		console.DELETE("/session", controllers.SessionDelete)
		if hub := models.GetNotifyHub(); tool.GetCurrentConfig().NotifyWebsocket && hub != nil {
			console.GET("/notify-ws", controllers.HandleNotifyWS(hub))
		}
	}
	authed := console.Group("", middlewares.RequireSession)
	{
		authed.POST("/queue/select", controllers.QueueSelect) // file picker
		authed.POST("/queue/drop", controllers.QueueDrop)     // drag-and-drop
		authed.POST("/queue/paths", controllers.QueuePaths)   // local paths / file:// URLs
		authed.PUT("/queue/drag", controllers.QueueDrag)
		authed.DELETE("/queue", controllers.QueueReset)
		authed.POST("/upload/start", controllers.UploadStart)
		authed.GET("/upload/progress", controllers.UploadProgress)
		authed.GET("/dashboard/:user_id", controllers.DashboardGet)
		authed.GET("/zip/:zip_file_id", controllers.ZipDetailsGet)
		authed.GET("/zip/:zip_file_id/qr", controllers.ZipDetailsQRCode)
	}

	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine := Engine()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting console API on http://127.0.0.1:%d", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for a background upload run to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	err := srv.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		models.WaitRuns()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		tool.DefaultLogger.Warnf("[Server] Upload run still in progress at shutdown")
	}
	return err
}
