package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/ai"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

const chatFallbackReply = "Sorry, I'm having trouble right now. Please try again in a moment."

type AIHandler struct {
	assistant *ai.Assistant
	products  store.ProductStore
}

func NewAIHandler(assistant *ai.Assistant, products store.ProductStore) *AIHandler {
	return &AIHandler{assistant: assistant, products: products}
}

// Insights returns the model's take on a listing. Failures degrade to an
// empty payload so the product page renders without the panel.
func (h *AIHandler) Insights(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	ctx := c.Request().Context()
	product, err := h.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "product not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch product"))
	}
	insights, err := h.assistant.ProductInsights(ctx, *product)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{"available": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"available": true, "insights": insights})
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ai.ChatTurn `json:"history"`
	// Image is a base64-encoded photo attached to the message.
	Image     string `json:"image"`
	ImageMIME string `json:"imageMimeType"`
}

type ChatResponse struct {
	Reply          string   `json:"reply"`
	RecommendedIDs []uint64 `json:"recommendedIds"`
}

func (h *AIHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.Message == "" && req.Image == "" {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "message is required"))
	}
	ctx := c.Request().Context()
	catalog, err := h.products.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch catalog"))
	}

	aiReq := ai.ChatRequest{History: req.History, Message: req.Message, ImageMIME: req.ImageMIME}
	if req.Image != "" {
		data, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "image must be base64-encoded"))
		}
		aiReq.Image = data
	}

	reply, err := h.assistant.Chat(ctx, aiReq, catalog)
	if err != nil {
		// The chat widget shows an apology instead of an error state.
		return c.JSON(http.StatusOK, ChatResponse{Reply: chatFallbackReply, RecommendedIDs: []uint64{}})
	}
	ids := reply.RecommendedIDs
	if ids == nil {
		ids = []uint64{}
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply.Reply, RecommendedIDs: ids})
}
