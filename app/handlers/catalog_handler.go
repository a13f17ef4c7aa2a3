package handlers

import (
	"net/http"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/utils/format"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// CatalogHandler serves the public, unauthenticated catalog surface.
type CatalogHandler struct {
	render    *render.Render
	furniture repositories.FurnitureRepositoryImpl
}

func NewCatalogHandler(r *render.Render, furniture repositories.FurnitureRepositoryImpl) *CatalogHandler {
	return &CatalogHandler{
		render:    r,
		furniture: furniture,
	}
}

type catalogItem struct {
	models.Furniture
	DisplayPrice string `json:"displayPrice"`
}

func toCatalogItems(furniture []models.Furniture) []catalogItem {
	items := make([]catalogItem, 0, len(furniture))
	for _, f := range furniture {
		items = append(items, catalogItem{Furniture: f, DisplayPrice: format.Price(f.Price)})
	}
	return items
}

// Search lists furniture across every shop, narrowed by the optional
// category, material, city, minPrice and maxPrice query parameters.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.CatalogFilter{
		Category: query.Get("category"),
		Material: query.Get("material"),
		City:     query.Get("city"),
	}

	if raw := query.Get("minPrice"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(h.render, w, apperrors.Validation("minPrice must be a number"))
			return
		}
		filter.MinPrice = &min
	}
	if raw := query.Get("maxPrice"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(h.render, w, apperrors.Validation("maxPrice must be a number"))
			return
		}
		filter.MaxPrice = &max
	}

	furniture, err := h.furniture.Search(r.Context(), filter)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, toCatalogItems(furniture))
}

// ShopCatalog lists one shop's furniture by the owner's id, sorted by title.
func (h *CatalogHandler) ShopCatalog(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]

	if _, err := uuid.Parse(shopID); err != nil {
		respondError(h.render, w, apperrors.Validation("Invalid shop owner ID format"))
		return
	}

	furniture, err := h.furniture.FindByShop(r.Context(), shopID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if len(furniture) == 0 {
		respondError(h.render, w, apperrors.NotFound("No catalog found for this shop owner"))
		return
	}
	_ = h.render.JSON(w, http.StatusOK, toCatalogItems(furniture))
}

// Health is the root probe.
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Server is running"})
}
