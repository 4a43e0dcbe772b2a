package handlers

import (
	"net/http"

	"github.com/Harshitk-cp/verity/internal/domain"
	"github.com/Harshitk-cp/verity/internal/service"
)

type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type listCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
	Count      int               `json:"count"`
}

// List returns the built-in compliance categories in catalog order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	names := service.CategoryNames()
	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		if cat, ok := service.LookupCategory(name); ok {
			categories = append(categories, cat)
		}
	}

	writeJSON(w, http.StatusOK, listCategoriesResponse{
		Categories: categories,
		Count:      len(categories),
	})
}
