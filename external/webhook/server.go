package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second
)

// Syncer runs one transcript sync batch for a platform project.
type Syncer interface {
	Sync(ctx context.Context, platformProjectID string) error
}

// Server exposes the inbound trigger endpoint. The caller gets an immediate
// acknowledgment; the sync itself runs detached and its outcome is only
// observable through the logs.
type Server struct {
	srv    *http.Server
	syncer Syncer
}

func NewServer(port int, development bool, syncer Syncer) *Server {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{syncer: syncer}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/healthz", handleHealth)
	engine.POST("/webhooks/platform", s.handleTrigger)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type triggerPayload struct {
	ProjectID string `json:"projectID"`
}

func (s *Server) handleTrigger(c *gin.Context) {
	var payload triggerPayload
	if err := c.ShouldBindJSON(&payload); err != nil || strings.TrimSpace(payload.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectID is required"})
		return
	}
	projectID := strings.TrimSpace(payload.ProjectID)

	slog.Info("sync trigger received", "project_external_id", projectID)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})

	// fire and forget: failures of the detached batch are logged, never
	// surfaced to the trigger caller
	go func() {
		if err := s.syncer.Sync(context.Background(), projectID); err != nil {
			slog.Error("transcript sync failed", "project_external_id", projectID, "error", err)
		}
	}()
}

func (s *Server) Run() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
