package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

type PurchaseHandler struct {
	purchases store.PurchaseStore
}

func NewPurchaseHandler(purchases store.PurchaseStore) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

type PurchaseListResponse struct {
	Purchases []model.Purchase `json:"purchases"`
	Total     int              `json:"total"`
}

func (h *PurchaseHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	purchases, err := h.purchases.ListFor(c.Request().Context(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch purchases"))
	}
	return c.JSON(http.StatusOK, PurchaseListResponse{Purchases: purchases, Total: len(purchases)})
}

// ListAll serves the admin dashboard's order history.
func (h *PurchaseHandler) ListAll(c echo.Context) error {
	purchases, err := h.purchases.All(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch purchases"))
	}
	return c.JSON(http.StatusOK, PurchaseListResponse{Purchases: purchases, Total: len(purchases)})
}
