package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
	"github.com/swapmarket/swapmarket-backend/internal/workflow"
)

// SessionHeader carries the client-chosen session id. The same id keeps
// working after sign-in, which is what lets a checkout parked in
// awaiting_auth resume once the shopper authenticates.
const SessionHeader = "X-Session-ID"

type WorkflowHandler struct {
	engine   *workflow.Engine
	wishlist store.WishlistStore
}

func NewWorkflowHandler(engine *workflow.Engine, wishlist store.WishlistStore) *WorkflowHandler {
	return &WorkflowHandler{engine: engine, wishlist: wishlist}
}

// sessionKey picks the engine session for a request. A client-sent session
// id wins so guest state survives sign-in; authenticated requests without
// one fall back to the account email.
func sessionKey(c echo.Context) string {
	if sid := strings.TrimSpace(c.Request().Header.Get(SessionHeader)); sid != "" {
		return "sid:" + sid
	}
	if user := middleware.CurrentUser(c); user != nil {
		return "user:" + strings.ToLower(user.Email)
	}
	return "ip:" + c.RealIP()
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total float64          `json:"total"`
}

func cartResponse(items []model.CartItem) CartResponse {
	return CartResponse{Items: items, Count: model.CartCount(items), Total: model.CartTotal(items)}
}

func (h *WorkflowHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, cartResponse(h.engine.Cart(sessionKey(c))))
}

type AddToCartRequest struct {
	ProductID uint64 `json:"productId"`
}

func (h *WorkflowHandler) AddToCart(c echo.Context) error {
	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	res, err := h.engine.AddToCart(c.Request().Context(), sessionKey(c), middleware.CurrentUser(c), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case errors.Is(err, workflow.ErrAuthRequired):
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("auth_required", "sign in to propose a swap"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to add to cart"))
		}
	}
	return c.JSON(http.StatusOK, res)
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *WorkflowHandler) UpdateQuantity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	items := h.engine.UpdateQuantity(sessionKey(c), id, req.Delta)
	return c.JSON(http.StatusOK, cartResponse(items))
}

func (h *WorkflowHandler) RemoveFromCart(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	items := h.engine.RemoveFromCart(sessionKey(c), id)
	return c.JSON(http.StatusOK, cartResponse(items))
}

type CompareResponse struct {
	Products []model.Product `json:"products"`
	Added    bool            `json:"added"`
}

func (h *WorkflowHandler) ToggleCompare(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	added, products, err := h.engine.ToggleCompare(c.Request().Context(), sessionKey(c), id)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrCompareLimit):
			return c.JSON(http.StatusConflict, NewErrorResponse("compare_limit", err.Error()))
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update compare list"))
		}
	}
	return c.JSON(http.StatusOK, CompareResponse{Products: products, Added: added})
}

func (h *WorkflowHandler) GetCompare(c echo.Context) error {
	products := h.engine.CompareList(sessionKey(c))
	return c.JSON(http.StatusOK, CompareResponse{Products: products})
}

func (h *WorkflowHandler) ClearCompare(c echo.Context) error {
	h.engine.ClearCompare(sessionKey(c))
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkflowHandler) GetWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	ids, err := h.wishlist.For(c.Request().Context(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch wishlist"))
	}
	return c.JSON(http.StatusOK, map[string]any{"productIds": ids})
}

func (h *WorkflowHandler) ToggleWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	added, err := h.wishlist.Toggle(c.Request().Context(), user.Email, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update wishlist"))
	}
	return c.JSON(http.StatusOK, map[string]bool{"added": added})
}

func (h *WorkflowHandler) RemoveFromWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.wishlist.Remove(c.Request().Context(), user.Email, id); err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update wishlist"))
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout computes the amount due, or parks the flow in awaiting_auth for
// guests. The client retries after sign-in with the same session id.
func (h *WorkflowHandler) Checkout(c echo.Context) error {
	state, err := h.engine.Checkout(c.Request().Context(), sessionKey(c), middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("empty_cart", "cart is empty"))
		case errors.Is(err, workflow.ErrPaymentInProgress):
			return c.JSON(http.StatusConflict, NewErrorResponse("payment_in_progress", "a payment is already processing"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start checkout"))
		}
	}
	return c.JSON(http.StatusOK, state)
}

type SwapProposalRequest struct {
	OfferedIDs []uint64 `json:"offeredIds"`
	Note       string   `json:"note"`
	CashOffer  float64  `json:"cashOffer"`
}

func (h *WorkflowHandler) SubmitSwap(c echo.Context) error {
	user := middleware.CurrentUser(c)
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req SwapProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	res, err := h.engine.SubmitSwapProposal(c.Request().Context(), sessionKey(c), *user, targetID, req.OfferedIDs, req.Note, req.CashOffer)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case errors.Is(err, workflow.ErrNotSwapListing),
			errors.Is(err, workflow.ErrOwnSwapTarget),
			errors.Is(err, workflow.ErrOwnerUnknown):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		case errors.Is(err, workflow.ErrPaymentInProgress):
			return c.JSON(http.StatusConflict, NewErrorResponse("payment_in_progress", "a payment is already processing"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *WorkflowHandler) Pay(c echo.Context) error {
	res, err := h.engine.Pay(c.Request().Context(), sessionKey(c), middleware.CurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrAuthRequired):
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("auth_required", "sign in to pay"))
		case errors.Is(err, workflow.ErrNoPaymentDue):
			return c.JSON(http.StatusBadRequest, NewErrorResponse("no_payment_due", "no payment due"))
		case errors.Is(err, workflow.ErrPaymentInProgress):
			return c.JSON(http.StatusConflict, NewErrorResponse("payment_in_progress", "a payment is already processing"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "payment failed"))
		}
	}
	return c.JSON(http.StatusOK, res)
}

func (h *WorkflowHandler) CancelCheckout(c echo.Context) error {
	if err := h.engine.CancelCheckout(sessionKey(c)); err != nil {
		return c.JSON(http.StatusConflict, NewErrorResponse("payment_in_progress", "a payment is already processing"))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkflowHandler) CheckoutState(c echo.Context) error {
	return c.JSON(http.StatusOK, h.engine.CheckoutState(sessionKey(c)))
}

// LastOrder serves the confirmation page after a completed purchase.
func (h *WorkflowHandler) LastOrder(c echo.Context) error {
	order := h.engine.LastOrder(sessionKey(c))
	if order == nil {
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no completed order in this session"))
	}
	return c.JSON(http.StatusOK, order)
}
