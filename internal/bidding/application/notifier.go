package application

import (
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"go.uber.org/zap"
)

// Notifier receives the user-facing outcome of every submission. Surfaces
// (HTTP responses, websocket toasts) implement this; the pipeline only
// selects the message
type Notifier interface {
	NotifyAccepted(auctionID, message string)
	NotifyRejected(auctionID string, kind domain.RejectionKind, message string)
}

// LogNotifier is the default Notifier, it just records outcomes in the log
type LogNotifier struct{}

func (LogNotifier) NotifyAccepted(auctionID, message string) {
	log.Info("Bid notification",
		zap.String("auctionID", auctionID),
		zap.String("message", message),
	)
}

func (LogNotifier) NotifyRejected(auctionID string, kind domain.RejectionKind, message string) {
	log.Warn("Bid rejection notification",
		zap.String("auctionID", auctionID),
		zap.String("kind", string(kind)),
		zap.String("message", message),
	)
}
