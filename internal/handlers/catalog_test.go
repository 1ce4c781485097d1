package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogHandler(t *testing.T) {
	cat := loadCatalog(t)
	h := NewCatalogHandler(cat, testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[CatalogResponse](t, rr)
	assert.Len(t, resp.Rooms, len(cat.Rooms))
	assert.Len(t, resp.Clues, len(cat.Clues))
	assert.Contains(t, resp.Characters, "Su Wan")

	var room101Hotspots int
	for _, r := range resp.Rooms {
		if r.ID == "101" {
			room101Hotspots = len(r.Hotspots)
		}
	}
	assert.Positive(t, room101Hotspots)
}

func TestCatalogHandler_MethodNotAllowed(t *testing.T) {
	h := NewCatalogHandler(loadCatalog(t), testLogger())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/catalog", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}
