package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/events"
)

// ForwardMatchEvents relays match results to clients watching the
// community. It returns when ch is closed or ctx is done.
func (h *Hub) ForwardMatchEvents(ctx context.Context, ch <-chan events.MatchCompleted) {
	h.log.Info("match event forwarder started")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			h.broadcastToCommunity(ev.CommunityID, Reply{Type: "match_completed", SessionID: ev.SessionID, Data: ev})
		}
	}
}

func (h *Hub) broadcastToCommunity(communityID string, message Reply) {
	data, err := json.Marshal(message)
	if err != nil {
		h.log.Error("marshal broadcast", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.watchers[communityID]
	if len(set) == 0 {
		return
	}
	for c := range set {
		h.trySendLocked(c, data)
	}
	h.log.Debug("broadcast to community", zap.String("community_id", communityID), zap.Int("watchers", len(set)))
}
