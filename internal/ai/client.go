package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/genai"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// ErrUnavailable is returned when the assistant cannot answer, either
// because no API key is configured or the breaker is open.
var ErrUnavailable = errors.New("assistant unavailable")

const callTimeout = 20 * time.Second

// Assistant fronts the Gemini API for catalog search, product insights,
// and shopping chat. A circuit breaker guards the upstream so a flaky
// model degrades the features instead of stalling every request.
type Assistant struct {
	apiKey  string
	model   string
	breaker *gobreaker.CircuitBreaker[string]
	log     *slog.Logger
}

func NewAssistant(apiKey, model string, log *slog.Logger) *Assistant {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if log == nil {
		log = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &Assistant{
		apiKey:  apiKey,
		model:   model,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		log:     log,
	}
}

// Enabled reports whether an API key is configured. Callers degrade the
// AI features when it is false rather than failing requests.
func (a *Assistant) Enabled() bool {
	return a.apiKey != ""
}

// SearchCatalog asks the model to interpret a free-form query against the
// catalog and returns matching product ids. Ids the model invents that do
// not exist in the catalog are dropped.
func (a *Assistant) SearchCatalog(ctx context.Context, query string, products []model.Product) ([]uint64, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"productIds": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"productIds"},
	}
	raw, err := a.generate(ctx, searchPrompt(query, products), schema)
	if err != nil {
		return nil, err
	}
	var out struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	known := make(map[uint64]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	ids := make([]uint64, 0, len(out.ProductIDs))
	for _, s := range out.ProductIDs {
		id, ok := parseID(s)
		if !ok || !known[id] {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Insights is the model's marketing take on a single listing.
type Insights struct {
	VibeTags     []string `json:"vibeTags"`
	SellingPoint string   `json:"sellingPoint"`
	BestOccasion string   `json:"bestOccasion"`
}

func (a *Assistant) ProductInsights(ctx context.Context, product model.Product) (*Insights, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"vibeTags":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"sellingPoint": {Type: genai.TypeString},
			"bestOccasion": {Type: genai.TypeString},
		},
		Required: []string{"vibeTags", "sellingPoint", "bestOccasion"},
	}
	raw, err := a.generate(ctx, insightsPrompt(product), schema)
	if err != nil {
		return nil, err
	}
	var out Insights
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatTurn is one prior exchange in a shopping conversation.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

type ChatRequest struct {
	History []ChatTurn
	Message string
	// Image is an optional photo attached to the message, e.g. for
	// "find me something like this".
	Image     []byte
	ImageMIME string
}

type ChatReply struct {
	Reply          string   `json:"reply"`
	RecommendedIDs []uint64 `json:"-"`
}

func (a *Assistant) Chat(ctx context.Context, req ChatRequest, products []model.Product) (*ChatReply, error) {
	schema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"reply":          {Type: genai.TypeString},
			"recommendedIds": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"reply"},
	}

	parts := []*genai.Part{genai.NewPartFromText(chatPrompt(req.History, req.Message, products))}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.NewPartFromBytes(req.Image, mime))
	}

	raw, err := a.generateParts(ctx, parts, schema)
	if err != nil {
		return nil, err
	}
	var out struct {
		Reply          string   `json:"reply"`
		RecommendedIDs []string `json:"recommendedIds"`
	}
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	known := make(map[uint64]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	reply := &ChatReply{Reply: out.Reply}
	for _, s := range out.RecommendedIDs {
		if id, ok := parseID(s); ok && known[id] {
			reply.RecommendedIDs = append(reply.RecommendedIDs, id)
		}
	}
	return reply, nil
}

func (a *Assistant) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	return a.generateParts(ctx, []*genai.Part{genai.NewPartFromText(prompt)}, schema)
}

func (a *Assistant) generateParts(ctx context.Context, parts []*genai.Part, schema *genai.Schema) (string, error) {
	if !a.Enabled() {
		return "", ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	start := time.Now()
	text, err := a.breaker.Execute(func() (string, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: a.apiKey})
		if err != nil {
			return "", fmt.Errorf("gemini client: %w", err)
		}
		contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
		temp := float32(0)
		config := &genai.GenerateContentConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		}
		res, err := client.Models.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("gemini generate: %w", err)
		}
		return res.Text(), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			a.log.Warn("assistant call short-circuited", "model", a.model)
			return "", ErrUnavailable
		}
		a.log.Error("assistant call failed", "model", a.model, "error", err)
		return "", err
	}
	a.log.Debug("assistant call done", "model", a.model, "ms", time.Since(start).Milliseconds(), "len", len(text))
	return text, nil
}
