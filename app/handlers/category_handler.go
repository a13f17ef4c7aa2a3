package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render     *render.Render
	categories repositories.CategoryRepositoryImpl
	furniture  repositories.FurnitureRepositoryImpl
}

func NewCategoryHandler(r *render.Render, categories repositories.CategoryRepositoryImpl, furniture repositories.FurnitureRepositoryImpl) *CategoryHandler {
	return &CategoryHandler{
		render:     r,
		categories: categories,
		furniture:  furniture,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func decodeName(r *http.Request, required string) (string, *apperrors.Error) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", apperrors.Validation("Invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", apperrors.Validation(required)
	}
	return name, nil
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	name, appErr := decodeName(r, "Category name is required")
	if appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	existing, err := h.categories.FindByNameForOwner(r.Context(), name, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if existing != nil {
		respondError(h.render, w, apperrors.Conflict("Category with this name already exists for your shop."))
		return
	}

	category := &models.Category{
		Name:        name,
		ShopOwnerID: owner.ID,
		IsCustom:    true,
	}
	if err := h.categories.Create(r.Context(), category); err != nil {
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("Category with this name already exists for your shop."))
			return
		}
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	categories, err := h.categories.FindByOwner(r.Context(), owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	name, appErr := decodeName(r, "Category name is required")
	if appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	category, err := h.categories.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if category == nil {
		// Not owned looks identical to not existing.
		respondError(h.render, w, apperrors.NotFound("Category not found or unauthorized"))
		return
	}

	existing, err := h.categories.FindByNameForOwner(r.Context(), name, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if existing != nil && existing.ID != category.ID {
		respondError(h.render, w, apperrors.Conflict("Category with this name already exists for your shop."))
		return
	}

	category.Name = name
	if err := h.categories.Update(r.Context(), category); err != nil {
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("Category with this name already exists for your shop."))
			return
		}
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	category, err := h.categories.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if category == nil {
		respondError(h.render, w, apperrors.NotFound("Category not found or unauthorized"))
		return
	}

	count, err := h.furniture.CountByCategoryName(r.Context(), owner.ID, category.Name)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if count > 0 {
		respondError(h.render, w, apperrors.Conflict("Cannot delete category with associated furniture products. Please reassign or delete products first."))
		return
	}

	if err := h.categories.Delete(r.Context(), id, owner.ID); err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Category removed successfully"})
}
