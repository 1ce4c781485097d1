package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/guining-hotel/pkg/catalog"
)

// CatalogResponse is the static content a client needs to drive room scenes.
type CatalogResponse struct {
	Rooms      []catalog.Room `json:"rooms"`
	Clues      []catalog.Clue `json:"clues"`
	Characters []string       `json:"characters"`
}

type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, CatalogResponse{
		Rooms:      h.catalog.Rooms,
		Clues:      h.catalog.Clues,
		Characters: h.catalog.CharacterNames(),
	})
}
