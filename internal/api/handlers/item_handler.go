package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type ItemHandler struct {
	items *services.ItemService
	log   logger.Logger
}

type createItemRequest struct {
	ItemName    string    `json:"item_name"`
	Description string    `json:"description"`
	StartingBid float64   `json:"starting_bid"`
	ClosingTime time.Time `json:"closing_time"`
}

func NewItemHandler(items *services.ItemService, log logger.Logger) *ItemHandler {
	return &ItemHandler{
		items: items,
		log:   log,
	}
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	item, err := h.items.CreateItem(c.Request().Context(), identity,
		req.ItemName, req.Description, req.StartingBid, req.ClosingTime)
	if err != nil {
		if errors.Is(err, services.ErrInvalidItem) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "All fields are required"})
		}
		h.log.Error("Failed to create item", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Auction item created",
		"item":    item,
	})
}

func (h *ItemHandler) ListItems(c echo.Context) error {
	items, err := h.items.ListItems(c.Request().Context())
	if err != nil {
		h.log.Error("Failed to list items", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}

	if items == nil {
		items = []*domain.AuctionItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	itemID := c.Param("id")

	item, err := h.items.GetItem(c.Request().Context(), itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Auction not found"})
		}
		h.log.Error("Failed to get item", "item_id", itemID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal Server Error"})
	}

	return c.JSON(http.StatusOK, item)
}
