package websocket

import (
	"encoding/json"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/cache"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/websocket"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// SnapshotBroadcaster pushes every authoritative snapshot that lands in the
// cache out to the auction's websocket viewers. This is how non-submitting
// viewers converge after each reconciliation without polling
type SnapshotBroadcaster struct {
	hub *websocket.Hub
}

// NewSnapshotBroadcaster wires the broadcaster to the snapshot store's
// refresh events. Must be called before the store is shared
func NewSnapshotBroadcaster(hub *websocket.Hub, store *cache.Store) *SnapshotBroadcaster {
	b := &SnapshotBroadcaster{hub: hub}
	store.OnRefresh(b.broadcast)
	return b
}

func (b *SnapshotBroadcaster) broadcast(snap domain.AuctionSnapshot) {
	data, err := json.Marshal(NewServerSnapshotMessage(snap))
	if err != nil {
		log.Error("Failed to marshal snapshot broadcast",
			zap.String("auctionID", snap.AuctionID),
			zap.Error(err),
		)
		return
	}
	b.hub.BroadcastToAuction(snap.AuctionID, data)
}
