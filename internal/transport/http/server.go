package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/config"
	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/store"
)

// NewServer builds the HTTP server: health check, REST surface and the
// WebSocket endpoint.
func NewServer(hub *core.Hub, st store.MessageStore, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, st, cfg.HistoryLimit, logger)
	router.GET("/api/presence", api.GetPresence)
	router.GET("/api/channels/:channel/messages", api.GetChannelMessages)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.WSRateLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
