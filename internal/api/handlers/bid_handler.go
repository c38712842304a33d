package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type BidHandler struct {
	bids *services.BidService
	log  logger.Logger
}

type placeBidRequest struct {
	Bid float64 `json:"bid"`
}

func NewBidHandler(bids *services.BidService, log logger.Logger) *BidHandler {
	return &BidHandler{
		bids: bids,
		log:  log,
	}
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	itemID := c.Param("id")

	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}
	if req.Bid <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Bid must be positive"})
	}

	result, err := h.bids.PlaceBid(c.Request().Context(), itemID, identity, req.Bid)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Auction item not found"})
		}
		h.log.Error("Failed to place bid", "item_id", itemID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}

	switch result.Outcome {
	case domain.BidAccepted:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Bid successful",
			"item":    result.Item,
		})
	case domain.BidClosesAuction:
		// The auction closed on this access; the bid was discarded.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Auction closed",
			"winner":  result.Winner(),
		})
	case domain.BidRejectedClosed:
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"message": "Auction is closed",
			"winner":  result.Winner(),
		})
	default: // domain.BidRejectedTooLow
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Bid too low"})
	}
}

// BidHistory returns the accepted-bid trail for an item.
func (h *BidHandler) BidHistory(c echo.Context) error {
	itemID := c.Param("id")

	events, err := h.bids.History(c.Request().Context(), itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Auction item not found"})
		}
		h.log.Error("Failed to fetch bid history", "item_id", itemID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}

	if events == nil {
		events = []*domain.BidEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
