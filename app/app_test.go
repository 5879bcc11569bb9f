package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/junaidrashid-git/shopeasy-api/config"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

const apiKey = "test-admin-key"

type client struct {
	t       *testing.T
	handler http.Handler
	session string
}

func (c *client) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()
	cfg := config.Config{
		StorageBackend: config.BackendLocal,
		LocalSubstrate: config.SubstrateMemory,
		AdminAPIKey:    apiKey,
		CORSOrigins:    []string{"*"},
		SessionTTL:     time.Hour,
		BcryptCost:     4,
	}
	a, err := New(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestStorefrontFlow(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, handler: a.Engine}

	w := c.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/admin/init", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodPost, "/api/admin/init", "", "X-API-KEY", apiKey)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(12), gjson.Get(w.Body.String(), "result.products").Int())

	w = c.do(http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	c.session = gjson.Get(w.Body.String(), "sessionId").String()
	require.NotEmpty(t, c.session)
	assert.Equal(t, "anonymous", gjson.Get(w.Body.String(), "state").String())

	w = c.do(http.MethodGet, "/api/products?category=books&sort=price-low", "")
	require.Equal(t, http.StatusOK, w.Code)
	books := gjson.Get(w.Body.String(), "#.name").Array()
	require.Len(t, books, 2)
	assert.Equal(t, "Programming Book", books[0].String())
	assert.Equal(t, "Cookbook Collection", books[1].String())

	w = c.do(http.MethodGet, "/api/products?maxPrice=cheap", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/api/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.do(http.MethodGet, "/api/products?search=headphones", "")
	headphones := gjson.Get(w.Body.String(), "0._id").String()
	require.NotEmpty(t, headphones)

	t.Run("guest cart", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			w := c.do(http.MethodPost, "/api/cart/items", `{"productId":"`+headphones+`"}`)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
		w := c.do(http.MethodGet, "/api/cart", "")
		assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "itemCount").Int())
		assert.Len(t, gjson.Get(w.Body.String(), "items").Array(), 1)
		assert.Equal(t, 399.98, gjson.Get(w.Body.String(), "total").Float())
	})

	t.Run("wishlist needs login", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/wishlists", `{"productId":"`+headphones+`"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login merges guest cart", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/users/login", `{"email":"john@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = c.do(http.MethodPost, "/api/users/login", `{"email":"john@example.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, gjson.Get(w.Body.String(), "user.passwordHash").String())

		w = c.do(http.MethodGet, "/api/cart", "")
		assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "itemCount").Int())
	})

	t.Run("wishlist", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/wishlists", `{"productId":"`+headphones+`"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		w = c.do(http.MethodPost, "/api/wishlists", `{"productId":"`+headphones+`"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		w = c.do(http.MethodGet, "/api/wishlists", "")
		assert.Len(t, gjson.Parse(w.Body.String()).Array(), 1)
	})

	t.Run("reviews", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/reviews/stats/"+headphones, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(2), gjson.Get(w.Body.String(), "total").Int())
		assert.Equal(t, 4.5, gjson.Get(w.Body.String(), "average").Float())

		w = c.do(http.MethodPost, "/api/reviews", `{"productId":"`+headphones+`","rating":6,"title":"x","comment":"y"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = c.do(http.MethodGet, "/api/reviews?productId="+headphones, "")
		require.Equal(t, http.StatusOK, w.Code)
		mine := gjson.Get(w.Body.String(), `#(userName=="John Doe")._id`).String()
		janes := gjson.Get(w.Body.String(), `#(userName=="Jane Smith")._id`).String()
		require.NotEmpty(t, mine)
		require.NotEmpty(t, janes)

		w = c.do(http.MethodPut, "/api/reviews/"+janes, `{"rating":1,"title":"Mine now","comment":"Not allowed"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = c.do(http.MethodPut, "/api/reviews/"+mine, `{"rating":9,"title":"Too many stars","comment":"Invalid"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = c.do(http.MethodPut, "/api/reviews/"+mine, `{"rating":4,"title":"Still good","comment":"A bit tight after a while"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, int64(4), gjson.Get(w.Body.String(), "rating").Int())

		w = c.do(http.MethodGet, "/api/reviews/stats/"+headphones, "")
		assert.Equal(t, 4.0, gjson.Get(w.Body.String(), "average").Float())
	})

	t.Run("user list is admin only", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
		w = c.do(http.MethodGet, "/api/admin/users", "", "X-API-KEY", apiKey)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, gjson.Parse(w.Body.String()).Array(), 2)
		assert.False(t, gjson.Get(w.Body.String(), "0.passwordHash").Exists())
	})

	t.Run("checkout", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/orders", `{
			"shippingAddress": {"fullName": "John Doe", "email": "john@example.com", "address": "1 Main St"},
			"paymentInfo": {"cardHolder": "John Doe", "cardNumber": "4111 1111 1111 1111", "expiryDate": "12/30", "cvv": "123"}
		}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 399.98, gjson.Get(w.Body.String(), "order.total").Float())
		assert.Equal(t, "**** **** **** 1111", gjson.Get(w.Body.String(), "order.paymentInfo.cardNumber").String())
		assert.False(t, gjson.Get(w.Body.String(), "order.paymentInfo.cvv").Exists())
		orderID := gjson.Get(w.Body.String(), "order._id").String()

		w = c.do(http.MethodGet, "/api/cart", "")
		assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "itemCount").Int())

		w = c.do(http.MethodPost, "/api/orders", `{
			"shippingAddress": {"fullName": "John Doe", "email": "john@example.com", "address": "1 Main St"},
			"paymentInfo": {"cardHolder": "John Doe", "cardNumber": "4111 1111 1111 1111", "expiryDate": "12/30", "cvv": "123"}
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = c.do(http.MethodGet, "/api/orders", "")
		assert.Len(t, gjson.Parse(w.Body.String()).Array(), 1)

		w = c.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", `{"status":"Shipped"}`, "X-API-KEY", apiKey)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "shipped", gjson.Get(w.Body.String(), "status").String())
	})

	t.Run("register duplicate email", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/users/register", `{"username":"johnny","email":"john@example.com","password":"pw123456","confirmPassword":"pw123456","firstName":"John","lastName":"Doe"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("stats and metrics", func(t *testing.T) {
		w := c.do(http.MethodGet, "/api/admin/stats", "", "X-API-KEY", apiKey)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(12), gjson.Get(w.Body.String(), "products").Int())
		assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "orders").Int())

		w = c.do(http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "shopeasy_http_requests_total")
		assert.Contains(t, w.Body.String(), `shopeasy_events_total{type="order.placed"}`)
	})

	t.Run("logout", func(t *testing.T) {
		w := c.do(http.MethodPost, "/api/users/logout", "")
		require.Equal(t, http.StatusOK, w.Code)
		w = c.do(http.MethodGet, "/api/sessions/current", "")
		assert.Equal(t, "anonymous", gjson.Get(w.Body.String(), "state").String())
	})
}

func TestUserListNeedsLogin(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, handler: a.Engine}

	w := c.do(http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	c.session = gjson.Get(w.Body.String(), "sessionId").String()

	w = c.do(http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownSessionIsRejected(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, handler: a.Engine, session: "sess_missing"}

	w := c.do(http.MethodGet, "/api/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
