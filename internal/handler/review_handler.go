package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewListResponse struct {
	Reviews []model.Review `json:"reviews"`
	Total   int            `json:"total"`
}

func (h *ReviewHandler) ListForProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	reviews, err := h.svc.ListFor(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch reviews"))
	}
	return c.JSON(http.StatusOK, ReviewListResponse{Reviews: reviews, Total: len(reviews)})
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type CreateReviewResponse struct {
	Review        model.Review `json:"review"`
	ProductRating float64      `json:"productRating"`
}

// Create accepts reviews from guests too; a guest review gets a generated
// identity.
func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	review, rating, err := h.svc.Add(c.Request().Context(), id, req.Rating, req.Comment, middleware.CurrentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, CreateReviewResponse{Review: *review, ProductRating: rating})
}
