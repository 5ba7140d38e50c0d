package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"primemotors/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryRouter(st *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewInventoryHandler(buildInventorySvc(st))
	r := gin.New()
	r.DELETE("/v1/inventory/:id", h.Delete)
	return r
}

func TestDeleteLotHandler_RespondsSuccessBody(t *testing.T) {
	st := newMemStore()
	branch := seedBranch(st, "Main Branch")
	item := seedItem(st, "Click 125i")
	lot := seedLot(st, branch, item, 2)

	r := newInventoryRouter(st)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/inventory/"+lot.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true}`, w.Body.String())
}

func TestDeleteLotHandler_UnknownLotReturns404(t *testing.T) {
	st := newMemStore()
	r := newInventoryRouter(st)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/v1/inventory/5f0c3c3a-8b86-4a39-9e5f-2d1f3a6b7c8d", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
