package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/service"
	"github.com/swapmarket/swapmarket-backend/internal/store"
	"github.com/swapmarket/swapmarket-backend/internal/workflow"
)

type ProductHandler struct {
	catalog service.CatalogService
	engine  *workflow.Engine
}

func NewProductHandler(catalog service.CatalogService, engine *workflow.Engine) *ProductHandler {
	return &ProductHandler{catalog: catalog, engine: engine}
}

type ProductListResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

// List serves the storefront browse view. With a q parameter the result
// crosses listing types; otherwise the type parameter partitions the
// catalog into the buy and swap tabs.
func (h *ProductHandler) List(c echo.Context) error {
	minRating, _ := strconv.ParseFloat(c.QueryParam("minRating"), 64)
	query := service.CatalogQuery{
		Query:       c.QueryParam("q"),
		ListingType: model.ListingType(c.QueryParam("type")),
		MinRating:   minRating,
		Sort:        service.SortOption(c.QueryParam("sort")),
	}
	products, err := h.catalog.Browse(c.Request().Context(), query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch products"))
	}
	return c.JSON(http.StatusOK, ProductListResponse{Products: products, Total: len(products)})
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	product, err := h.catalog.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch product"))
	}
	return c.JSON(http.StatusOK, product)
}

type CreateProductRequest struct {
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Image           string   `json:"image"`
	Images          []string `json:"images"`
	ListingType     string   `json:"listingType"`
	SwapPreferences string   `json:"swapPreferences"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	user := middleware.CurrentUser(c)
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	input := service.CreateProductInput{
		Name:            req.Name,
		Price:           req.Price,
		Category:        req.Category,
		Description:     req.Description,
		Image:           req.Image,
		Images:          req.Images,
		ListingType:     model.ListingType(req.ListingType),
		SwapPreferences: req.SwapPreferences,
	}
	lister := &model.Lister{Name: user.Name, Avatar: user.Avatar, Email: user.Email}
	product, err := h.catalog.Create(c.Request().Context(), input, lister)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	user := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req model.Product
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	req.ID = id
	product, err := h.catalog.Update(c.Request().Context(), req, *user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "you can only edit your own listings"))
		default:
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
		}
	}
	return c.JSON(http.StatusOK, product)
}

// Delete removes the listing and cascades through carts, compare sets,
// wishlists, and pending swap targets.
func (h *ProductHandler) Delete(c echo.Context) error {
	user := middleware.CurrentUser(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.engine.DeleteProduct(c.Request().Context(), id, *user); err != nil {
		switch {
		case errors.Is(err, workflow.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "you can only delete your own listings"))
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		default:
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete product"))
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	products, err := h.catalog.ListMine(c.Request().Context(), user.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	return c.JSON(http.StatusOK, ProductListResponse{Products: products, Total: len(products)})
}
