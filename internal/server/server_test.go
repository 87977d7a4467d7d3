package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swapmarket/swapmarket-backend/internal/config"
	"github.com/swapmarket/swapmarket-backend/internal/handler"
	"github.com/swapmarket/swapmarket-backend/internal/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := &config.Config{
		Port:                "0",
		LogLevel:            "error",
		JWTSecret:           "test-secret",
		TokenTTL:            time.Hour,
		AdminEmail:          "admin@swapify.com",
		AdminPassword:       "admin123",
		AllowedSignupDomain: "gmail.com",
		PaymentStepDelay:    time.Millisecond,
		PaymentSteps:        1,
	}
	log := logger.NewWithWriter("test", cfg.LogLevel, &bytes.Buffer{})
	return New(cfg, client, log)
}

type reqOpts struct {
	token   string
	session string
}

func do(t *testing.T, srv *Server, method, path string, body any, opts reqOpts) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.session != "" {
		req.Header.Set(handler.SessionHeader, opts.session)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func signUp(t *testing.T, srv *Server, name, email string) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": "password1",
	}, reqOpts{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	decode(t, rec, &session)
	return session.Token
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz", nil, reqOpts{})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBrowseSeededCatalog(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/products", nil, reqOpts{})
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Total int `json:"total"`
	}
	decode(t, rec, &list)
	assert.Equal(t, 15, list.Total)

	rec = do(t, srv, http.MethodGet, "/api/products?type=swap", nil, reqOpts{})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Equal(t, 3, list.Total)
}

func TestGuestCheckoutResumesAfterSignIn(t *testing.T) {
	srv := newTestServer(t)
	session := reqOpts{session: "guest-1"}

	rec := do(t, srv, http.MethodPost, "/api/cart", map[string]uint64{"productId": 1}, session)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/checkout", nil, session)
	require.Equal(t, http.StatusOK, rec.Code)
	var state struct {
		Phase string `json:"phase"`
	}
	decode(t, rec, &state)
	assert.Equal(t, "awaiting_auth", state.Phase)

	// Paying while unauthenticated stays blocked.
	rec = do(t, srv, http.MethodPost, "/api/checkout/pay", nil, session)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := signUp(t, srv, "Guest Buyer", "buyer@gmail.com")
	authed := reqOpts{token: token, session: "guest-1"}

	rec = do(t, srv, http.MethodPost, "/api/checkout", nil, authed)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &state)
	assert.Equal(t, "amount_computed", state.Phase)

	rec = do(t, srv, http.MethodPost, "/api/checkout/pay", nil, authed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var payment struct {
		Order *struct {
			ID    string  `json:"id"`
			Total float64 `json:"total"`
		} `json:"order"`
	}
	decode(t, rec, &payment)
	require.NotNil(t, payment.Order)
	assert.NotEmpty(t, payment.Order.ID)
	assert.Greater(t, payment.Order.Total, 0.0)

	rec = do(t, srv, http.MethodGet, "/api/checkout/last-order", nil, authed)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/me/purchases", nil, reqOpts{token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var purchases struct {
		Total int `json:"total"`
	}
	decode(t, rec, &purchases)
	assert.Equal(t, 1, purchases.Total)
}

func TestSwapListingRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/cart", map[string]uint64{"productId": 13}, reqOpts{session: "guest-2"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSwapProposalNotifiesOwner(t *testing.T) {
	srv := newTestServer(t)
	ownerToken := signUp(t, srv, "Owner", "owner@gmail.com")
	proposerToken := signUp(t, srv, "Proposer", "proposer@gmail.com")

	rec := do(t, srv, http.MethodPost, "/api/products", map[string]any{
		"name": "Record Player", "category": "Electronics",
		"description": "Working belt drive turntable.",
		"images":      []string{"https://example.com/tt.jpg"},
		"listingType": "swap",
	}, reqOpts{token: ownerToken})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var listing struct {
		ID uint64 `json:"id"`
	}
	decode(t, rec, &listing)

	rec = do(t, srv, http.MethodPost, "/api/products/"+strconv.FormatUint(listing.ID, 10)+"/swap", map[string]any{
		"note": "my speakers for your turntable",
	}, reqOpts{token: proposerToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Notified bool `json:"notified"`
	}
	decode(t, rec, &result)
	assert.True(t, result.Notified)

	rec = do(t, srv, http.MethodGet, "/api/me/notifications", nil, reqOpts{token: ownerToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var inbox struct {
		Notifications []struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"notifications"`
		Unread int `json:"unread"`
	}
	decode(t, rec, &inbox)
	require.Len(t, inbox.Notifications, 1)
	assert.Equal(t, "swap_proposal", inbox.Notifications[0].Type)
	assert.Equal(t, 1, inbox.Unread)
}

func TestAdminEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/auth/signin", map[string]string{
		"email": "admin@swapify.com", "password": "admin123",
	}, reqOpts{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	decode(t, rec, &session)

	rec = do(t, srv, http.MethodGet, "/api/admin/users", nil, reqOpts{token: session.Token})
	assert.Equal(t, http.StatusOK, rec.Code)

	userToken := signUp(t, srv, "Plain User", "plain@gmail.com")
	rec = do(t, srv, http.MethodGet, "/api/admin/users", nil, reqOpts{token: userToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/admin/purchases", nil, reqOpts{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestReviewGetsGeneratedIdentity(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/products/1/reviews", map[string]any{
		"rating": 5, "comment": "works great",
	}, reqOpts{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Review struct {
			UserName string `json:"userName"`
		} `json:"review"`
		ProductRating float64 `json:"productRating"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "Guest User", created.Review.UserName)
	assert.Greater(t, created.ProductRating, 0.0)
}

func TestSignupDomainRestriction(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Outsider", "email": "outsider@yahoo.com", "password": "password1",
	}, reqOpts{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistRequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/wishlist", nil, reqOpts{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
