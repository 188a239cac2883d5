package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"holosuite/internal/catalog"
	"holosuite/internal/domain"
)

type experiencesResponse struct {
	Category   string              `json:"category"`
	Categories []string            `json:"categories"`
	Featured   *domain.Experience  `json:"featured,omitempty"`
	Items      []domain.Experience `json:"items"`
	Rows       []catalog.Row       `json:"rows"`
}

func (a *App) ListExperiences(w http.ResponseWriter, r *http.Request) {
	category := catalog.Normalize(r.URL.Query().Get("category"))
	resp := experiencesResponse{
		Category:   category,
		Categories: a.Catalog.Categories(),
		Items:      a.Catalog.ByCategory(category),
		Rows:       a.Catalog.Rows(category),
	}
	if featured, ok := a.Catalog.Featured(); ok {
		resp.Featured = &featured
	}
	a.json(w, http.StatusOK, resp)
}

func (a *App) GetExperience(w http.ResponseWriter, r *http.Request) {
	exp, err := a.Catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, exp)
}
