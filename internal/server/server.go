package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trinnode/AfriHealthv2-sub003/internal/handler"
	"github.com/trinnode/AfriHealthv2-sub003/pkg/config"
)

// Server wraps the gin engine so the entrypoint can shut it down cleanly.
type Server struct {
	http *http.Server
}

func New(cfg *config.Config, h *handler.Handler) *Server {
	gin.SetMode(cfg.Server.GinMode)
	router := gin.Default()

	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		v1.GET("/topics", h.ListTopics)
		v1.POST("/topics/:name/messages", h.PublishMessages)
	}

	return &Server{
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: router,
		},
	}
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
