package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/okian/wrestlegm/internal/domain/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CatalogHandler serves the roster and the static definitions.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleRoster handles GET /roster. Performers are ordered by name using the
// collation of the request's Accept-Language, falling back to English.
func (h *CatalogHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.deps.Roster()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	sortByName(roster, requestTag(r))
	writeJSON(w, http.StatusOK, roster)
}

// HandleMatchTypes handles GET /match-types.
func (h *CatalogHandler) HandleMatchTypes(w http.ResponseWriter, _ *http.Request) {
	types, err := h.deps.MatchTypes()
	if err != nil {
		writeFailure(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

// HandleCategories handles GET /categories.
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.Categories())
}

func requestTag(r *http.Request) language.Tag {
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return language.English
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	return tags[0]
}

// sortByName orders performers by name, then id for equal names.
func sortByName(roster []model.Performer, tag language.Tag) {
	c := collate.New(tag, collate.IgnoreCase, collate.IgnoreDiacritics)
	slices.SortStableFunc(roster, func(a, b model.Performer) int {
		if n := c.CompareString(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
}
