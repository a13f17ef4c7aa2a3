package handlers

import (
	"net/http"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type MaterialHandler struct {
	render    *render.Render
	materials repositories.MaterialRepositoryImpl
	furniture repositories.FurnitureRepositoryImpl
}

func NewMaterialHandler(r *render.Render, materials repositories.MaterialRepositoryImpl, furniture repositories.FurnitureRepositoryImpl) *MaterialHandler {
	return &MaterialHandler{
		render:    r,
		materials: materials,
		furniture: furniture,
	}
}

func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	name, appErr := decodeName(r, "Material name is required")
	if appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	existing, err := h.materials.FindByNameForOwner(r.Context(), name, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if existing != nil {
		respondError(h.render, w, apperrors.Conflict("Material with this name already exists"))
		return
	}

	material := &models.Material{
		Name:        name,
		ShopOwnerID: owner.ID,
		IsCustom:    true,
	}
	if err := h.materials.Create(r.Context(), material); err != nil {
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("Material with this name already exists"))
			return
		}
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, material)
}

func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	materials, err := h.materials.FindByOwner(r.Context(), owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, materials)
}

func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	name, appErr := decodeName(r, "Material name is required")
	if appErr != nil {
		respondError(h.render, w, appErr)
		return
	}

	material, err := h.materials.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if material == nil {
		respondError(h.render, w, apperrors.NotFound("Material not found or unauthorized"))
		return
	}

	existing, err := h.materials.FindByNameForOwner(r.Context(), name, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if existing != nil && existing.ID != material.ID {
		respondError(h.render, w, apperrors.Conflict("Material with this name already exists"))
		return
	}

	material.Name = name
	if err := h.materials.Update(r.Context(), material); err != nil {
		if apperrors.IsDuplicateEntry(err) {
			respondError(h.render, w, apperrors.Conflict("Material with this name already exists"))
			return
		}
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, material)
}

func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	material, err := h.materials.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if material == nil {
		respondError(h.render, w, apperrors.NotFound("Material not found or unauthorized"))
		return
	}

	count, err := h.furniture.CountByMaterialName(r.Context(), owner.ID, material.Name)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if count > 0 {
		respondError(h.render, w, apperrors.Conflict("Cannot delete material with associated furniture products. Please reassign or delete products first."))
		return
	}

	if err := h.materials.Delete(r.Context(), id, owner.ID); err != nil {
		respondError(h.render, w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Material removed successfully"})
}
