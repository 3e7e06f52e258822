package websocket

import (
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/shopspring/decimal"
)

// MessageType defines the ws message type
type MessageType string

const (
	MessageTypeServerSnapshot MessageType = "server_snapshot" // server msg with a reconciled auction snapshot
	MessageTypeServerError    MessageType = "server_error"    // server msg indicating error
	MessageTypeServerInfo     MessageType = "server_info"     // server msg with general info
)

// BaseMessage is the base struct for all ws messages, the Type field
// identifies the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ServerSnapshotMessage carries an auction snapshot to every viewer. Only
// snapshots that arrived from the authority are broadcast; speculative local
// state never leaves the submitting request
type ServerSnapshotMessage struct {
	BaseMessage
	Payload struct {
		AuctionID   string                   `json:"auction_id"`
		CurrentBid  decimal.Decimal          `json:"current_bid"`
		BidderCount int                      `json:"bidder_count"`
		BidHistory  []domain.BidHistoryEntry `json:"bid_history"`
		EndTime     time.Time                `json:"end_time"`
		FetchedAt   time.Time                `json:"fetched_at"`
	} `json:"payload"`
}

// NewServerSnapshotMessage builds the broadcast DTO for one snapshot
func NewServerSnapshotMessage(snap domain.AuctionSnapshot) ServerSnapshotMessage {
	msg := ServerSnapshotMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerSnapshot},
	}
	msg.Payload.AuctionID = snap.AuctionID
	msg.Payload.CurrentBid = snap.CurrentBid
	msg.Payload.BidderCount = snap.BidderCount
	msg.Payload.BidHistory = snap.BidHistory
	msg.Payload.EndTime = snap.EndTime
	msg.Payload.FetchedAt = snap.FetchedAt
	return msg
}

// ServerErrorMessage reports a per-connection error to one viewer
type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		Error string `json:"error"`
	} `json:"payload"`
}

// ServerInfoMessage carries general information to one viewer
type ServerInfoMessage struct {
	BaseMessage
	Payload struct {
		Message string `json:"message"`
	} `json:"payload"`
}
