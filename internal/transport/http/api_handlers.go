package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/core"
	"github.com/chatrelay/chatrelay-server/internal/proto"
	"github.com/chatrelay/chatrelay-server/internal/store"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	hub          *core.Hub
	store        store.MessageStore
	historyLimit int
	log          *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, st store.MessageStore, historyLimit int, logger *zerolog.Logger) *APIHandlers {
	if historyLimit <= 0 {
		historyLimit = core.DefaultHistoryLimit
	}
	return &APIHandlers{
		hub:          hub,
		store:        st,
		historyLimit: historyLimit,
		log:          logger,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PresenceResponse lists the currently online usernames.
type PresenceResponse struct {
	Users []string `json:"users"`
}

// GetPresence handles GET /api/presence.
func (h *APIHandlers) GetPresence(c *gin.Context) {
	c.JSON(http.StatusOK, PresenceResponse{Users: h.hub.Usernames()})
}

// MessagesResponse holds a channel's history in ascending timestamp order.
type MessagesResponse struct {
	Channel  string               `json:"channel"`
	Messages []proto.EventMessage `json:"messages"`
}

// GetChannelMessages handles GET /api/channels/:channel/messages.
func (h *APIHandlers) GetChannelMessages(c *gin.Context) {
	channel := c.Param("channel")

	limit := h.historyLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	records, err := h.store.ListByChannel(c.Request.Context(), channel, limit)
	if err != nil {
		h.log.Error().Err(err).Str("channel", channel).Msg("list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load messages"})
		return
	}

	messages := make([]proto.EventMessage, 0, len(records))
	for _, rec := range records {
		messages = append(messages, proto.EventMessage{
			ID:      rec.ID,
			Channel: rec.ChannelID,
			From:    rec.FromUser,
			Text:    rec.Body,
			TS:      rec.TS,
			Kind:    rec.Kind,
		})
	}

	c.JSON(http.StatusOK, MessagesResponse{Channel: channel, Messages: messages})
}
