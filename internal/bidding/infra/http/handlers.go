package http

import (
	"errors"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/application"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/domain"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// BidHandler exposes the bidding service over HTTP
type BidHandler struct {
	service application.BidService
}

// NewBidHandler creates a handler backed by the given service
func NewBidHandler(service application.BidService) *BidHandler {
	return &BidHandler{service: service}
}

// Register mounts the bidding routes on the fiber app
func (h *BidHandler) Register(app *fiber.App) {
	app.Post("/auctions/:id/bids", h.submitBid)
	app.Get("/auctions/:id", h.auctionState)
	app.Get("/auctions/:id/leader", h.leader)
}

type submitBidRequest struct {
	BidderName  string          `json:"bidder_name"`
	BidderEmail string          `json:"bidder_email"`
	Amount      decimal.Decimal `json:"amount"`
}

type submitBidResponse struct {
	Success bool               `json:"success"`
	Code    domain.OutcomeCode `json:"code,omitempty"`
	Message string             `json:"message"`
}

type errorResponse struct {
	Error       string   `json:"error"`
	Message     string   `json:"message"`
	FieldErrors []string `json:"field_errors,omitempty"`
}

func (h *BidHandler) submitBid(c *fiber.Ctx) error {
	var req submitBidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "bad_request",
			Message: "invalid request body",
		})
	}

	outcome, err := h.service.SubmitBid(c.UserContext(), domain.BidSubmission{
		AuctionID:   c.Params("id"),
		BidderName:  req.BidderName,
		BidderEmail: req.BidderEmail,
		Amount:      req.Amount,
	})
	if err != nil {
		return h.submitError(c, err)
	}

	return c.JSON(submitBidResponse{
		Success: true,
		Code:    outcome.Code,
		Message: outcome.Message,
	})
}

// submitError maps pipeline failures onto HTTP statuses. The body always
// carries the taxonomy kind and the user-facing message
func (h *BidHandler) submitError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrSubmitInFlight) {
		return c.Status(fiber.StatusConflict).JSON(errorResponse{
			Error:   "submission_in_progress",
			Message: "A bid submission is already in progress.",
		})
	}

	rej, ok := domain.AsRejection(err)
	if !ok {
		log.Error("Unclassified submission error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:   "internal",
			Message: domain.MsgGenericRejection,
		})
	}

	status := fiber.StatusBadRequest
	switch rej.Kind {
	case domain.KindRateLimited:
		status = fiber.StatusTooManyRequests
	case domain.KindAuthorityReject:
		status = fiber.StatusConflict
	case domain.KindNetworkError:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(errorResponse{
		Error:       string(rej.Kind),
		Message:     rej.UserMessage,
		FieldErrors: rej.FieldErrors,
	})
}

func (h *BidHandler) auctionState(c *fiber.Ctx) error {
	snap, err := h.service.AuctionState(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAuctionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(errorResponse{
				Error:   "not_found",
				Message: "This auction could not be found.",
			})
		}
		log.Error("Failed to load auction snapshot",
			zap.String("auctionID", c.Params("id")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{
			Error:   string(domain.KindNetworkError),
			Message: domain.MsgNetworkError,
		})
	}
	return c.JSON(snap)
}

type leaderResponse struct {
	IsHighestBidder bool `json:"is_highest_bidder"`
}

func (h *BidHandler) leader(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "bad_request",
			Message: "email query parameter is required",
		})
	}

	leading, err := h.service.IsUserHighestBidder(c.UserContext(), c.Params("id"), email)
	if err != nil {
		log.Error("Failed to check bid receipt",
			zap.String("auctionID", c.Params("id")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
			Error:   "internal",
			Message: domain.MsgGenericRejection,
		})
	}
	return c.JSON(leaderResponse{IsHighestBidder: leading})
}
