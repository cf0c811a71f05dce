package handlers

import (
	"testing"

	"github.com/platewise/recipeledger/internal/logger"
	"github.com/platewise/recipeledger/internal/sse"
)

func newSSETestHandler(t *testing.T) (*SSEHandler, *sse.SSEHub) {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	t.Cleanup(log.Sync)
	hub := sse.NewSSEHub(log)
	return NewSSEHandler(log, hub), hub
}

// A chef reconnecting replaces their stream: the new stream closes the old
// client, then the old stream's handler runs its own teardown. That teardown
// must neither panic on the already-closed client nor evict the replacement
// from the client map.
func TestDetachClientAfterReplacement(t *testing.T) {
	h, hub := newSSETestHandler(t)
	const chefID = "chef-1"

	old := hub.NewSSEClient(chefID)
	h.clients[chefID] = old
	hub.AddChannel(old, chefID)

	// Reconnect path as SSEStream runs it.
	hub.CloseClient(old)
	delete(h.clients, chefID)
	replacement := hub.NewSSEClient(chefID)
	h.clients[chefID] = replacement
	hub.AddChannel(replacement, chefID)

	// Old stream unwinds last.
	h.detachClient(chefID, old)

	if got := h.clients[chefID]; got != replacement {
		t.Errorf("client map entry = %v, want the replacement client", got)
	}
}

func TestDetachClientRemovesOwnEntry(t *testing.T) {
	h, hub := newSSETestHandler(t)
	const chefID = "chef-1"

	client := hub.NewSSEClient(chefID)
	h.clients[chefID] = client
	hub.AddChannel(client, chefID)

	h.detachClient(chefID, client)

	if _, ok := h.clients[chefID]; ok {
		t.Error("client map entry should be removed when the stream ends normally")
	}
}
