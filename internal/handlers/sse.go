package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/requestdata"
	"github.com/platewise/recipeledger/internal/sse"
)

type SSEHandler struct {
	log *logger.Logger
	hub *sse.SSEHub

	mu      sync.RWMutex
	clients map[string]*sse.SSEClient // key: chef id, one stream per chef
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		clients: make(map[string]*sse.SSEClient),
	}
}

func (h *SSEHandler) SSEStream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.ChefID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	chefID := rd.ChefID
	h.log.Info("SSE stream open", "chef_id", chefID)

	h.mu.Lock()
	if existing, ok := h.clients[chefID]; ok {
		h.hub.CloseClient(existing)
		delete(h.clients, chefID)
	}
	client := h.hub.NewSSEClient(chefID)
	h.clients[chefID] = client
	h.mu.Unlock()

	// Every chef gets their own channel; recipe lifecycle events land there.
	h.hub.AddChannel(client, chefID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.detachClient(chefID, client)
}

// detachClient tears down a finished stream. The map entry is removed only
// if it still belongs to this client; a replacement stream may already have
// claimed the slot.
func (h *SSEHandler) detachClient(chefID string, client *sse.SSEClient) {
	h.mu.Lock()
	if h.clients[chefID] == client {
		delete(h.clients, chefID)
	}
	h.mu.Unlock()
	h.hub.CloseClient(client)
}

func (h *SSEHandler) SSESubscribe(c *gin.Context) {
	client, channel, ok := h.clientAndChannel(c)
	if !ok {
		return
	}
	h.hub.AddChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": channel})
}

func (h *SSEHandler) SSEUnsubscribe(c *gin.Context) {
	client, channel, ok := h.clientAndChannel(c)
	if !ok {
		return
	}
	h.hub.RemoveChannel(client, channel)
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": channel})
}

func (h *SSEHandler) clientAndChannel(c *gin.Context) (*sse.SSEClient, string, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.ChefID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, "", false
	}

	var req struct {
		Channel string `json:"channel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
		return nil, "", false
	}

	h.mu.RLock()
	client, exists := h.clients[rd.ChefID]
	h.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this chef"})
		return nil, "", false
	}
	return client, req.Channel, true
}
