package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/repository"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
)

// brokenHandler wires the list handlers over a database with no tables, so
// every repository read fails.
func brokenHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := repository.NewOrderRepository(db)
	sessions := repository.NewSessionRepository(db)
	messages := repository.NewMessageRepository(db)
	inventory := repository.NewInventoryRepository(db)

	return &Handler{
		orders:        service.NewOrderService(orders, sessions, nil, nil),
		conversations: service.NewConversationService(sessions, messages, nil, nil),
		inventory:     service.NewInventoryService(inventory, 4),
	}
}

func doGet(t *testing.T, h gin.HandlerFunc, route, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(route, h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestListReadsDegradeToEmptyOnStorageFailure(t *testing.T) {
	h := brokenHandler(t)

	cases := []struct {
		name    string
		handler gin.HandlerFunc
		route   string
		target  string
	}{
		{"orders", h.ListOrders, "/orders", "/orders"},
		{"conversations", h.ListConversations, "/conversations", "/conversations"},
		{"inventory overview", h.GetInventory, "/inventory", "/inventory"},
		{"inventory search", h.SearchInventory, "/inventory/search", "/inventory/search?q=205"},
		{"leads search", h.SearchLeads, "/leads/search", "/leads/search?q=331"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := doGet(t, tc.handler, tc.route, tc.target)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, body["success"])
			assert.NotContains(t, body, "error")
		})
	}
}

func TestListOrdersEmptyCountOnFailure(t *testing.T) {
	h := brokenHandler(t)
	w, body := doGet(t, h.ListOrders, "/orders", "/orders")
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 0, data["count"])
}
