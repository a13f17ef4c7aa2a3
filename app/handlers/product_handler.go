package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/designdekhoo/catalog-api/app/apperrors"
	"github.com/designdekhoo/catalog-api/app/helpers"
	"github.com/designdekhoo/catalog-api/app/middlewares"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

const maxProductImages = 5

type ProductHandler struct {
	render    *render.Render
	furniture repositories.FurnitureRepositoryImpl
	lifecycle *services.ImageLifecycle
	validator *validator.Validate
}

func NewProductHandler(r *render.Render, furniture repositories.FurnitureRepositoryImpl, lifecycle *services.ImageLifecycle, validator *validator.Validate) *ProductHandler {
	return &ProductHandler{
		render:    r,
		furniture: furniture,
		lifecycle: lifecycle,
		validator: validator,
	}
}

type ProductForm struct {
	Title       string `validate:"required,max=255"`
	Category    string `validate:"required,max=100"`
	Material    string `validate:"required,max=100"`
	Price       string `validate:"required"`
	Description string `validate:"omitempty"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(h.render, w, apperrors.Validation("Invalid multipart form"))
		return
	}

	form := ProductForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Material:    strings.TrimSpace(r.FormValue("material")),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}
	if err := h.validator.Struct(&form); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		respondError(h.render, w, apperrors.ValidationFields("Validation failed", helpers.FormatValidationErrors(validationErrors)))
		return
	}

	price, err := decimal.NewFromString(form.Price)
	if err != nil {
		respondError(h.render, w, apperrors.Validation("Please enter a valid price"))
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxProductImages {
		respondError(h.render, w, apperrors.Validation("A maximum of 5 images can be uploaded"))
		return
	}

	// Zero images is a valid state.
	images, err := h.lifecycle.UploadAll(r.Context(), files)
	if err != nil {
		respondError(h.render, w, apperrors.Unhandled("Failed to upload images", err))
		return
	}

	furniture := &models.Furniture{
		ShopOwnerID: owner.ID,
		Title:       form.Title,
		Category:    form.Category,
		Material:    form.Material,
		Price:       price,
		Description: form.Description,
		Images:      images,
	}
	if err := h.furniture.Create(r.Context(), furniture); err != nil {
		respondError(h.render, w, err)
		return
	}

	log.Printf("Create: product %s added for owner %s with %d images", furniture.ID, owner.ID, len(images))
	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"msg": "Product added successfully", "furniture": furniture})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(h.render, w, apperrors.Validation("Invalid multipart form"))
		return
	}

	furniture, err := h.furniture.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if furniture == nil {
		respondError(h.render, w, apperrors.NotFound("Furniture not found or unauthorized"))
		return
	}

	if v := strings.TrimSpace(r.FormValue("title")); v != "" {
		furniture.Title = v
	}
	if v := strings.TrimSpace(r.FormValue("category")); v != "" {
		furniture.Category = v
	}
	if v := strings.TrimSpace(r.FormValue("material")); v != "" {
		furniture.Material = v
	}
	if v := r.FormValue("description"); v != "" {
		furniture.Description = v
	}
	if v := r.FormValue("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			respondError(h.render, w, apperrors.Validation("Please enter a valid price"))
			return
		}
		furniture.Price = price
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxProductImages {
		respondError(h.render, w, apperrors.Validation("A maximum of 5 images can be uploaded"))
		return
	}

	update := services.ImageUpdate{NewFiles: files}
	if retained, ok := r.MultipartForm.Value["existing_images"]; ok {
		update.RetainedProvided = true
		for _, raw := range retained {
			for _, url := range strings.Split(raw, ",") {
				if url = strings.TrimSpace(url); url != "" {
					update.Retained = append(update.Retained, url)
				}
			}
		}
	}

	// External deletes happen inside Reconcile, before anything is
	// persisted, so a failed delete never strands a dangling reference.
	images, changed, err := h.lifecycle.Reconcile(r.Context(), furniture.Images, update)
	if err != nil {
		respondError(h.render, w, apperrors.Unhandled("Failed to update product images", err))
		return
	}

	if err := h.furniture.Update(r.Context(), furniture); err != nil {
		respondError(h.render, w, err)
		return
	}
	if changed {
		if err := h.furniture.ReplaceImages(r.Context(), furniture.ID, images); err != nil {
			respondError(h.render, w, err)
			return
		}
		furniture.Images = images
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Product updated successfully", "furniture": furniture})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	furniture, err := h.furniture.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if furniture == nil {
		respondError(h.render, w, apperrors.NotFound("Furniture not found or unauthorized"))
		return
	}

	// At-least-once cleanup: the loop runs to completion and the record is
	// removed even when some external deletes fail.
	cleanupErr := h.lifecycle.DeleteAll(r.Context(), furniture.Images)

	if err := h.furniture.Delete(r.Context(), id, owner.ID); err != nil {
		respondError(h.render, w, err)
		return
	}

	if cleanupErr != nil {
		respondError(h.render, w, apperrors.Unhandled("Product removed but some images could not be deleted externally", cleanupErr))
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"msg": "Product removed successfully"})
}

func (h *ProductHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())

	furniture, err := h.furniture.FindByOwner(r.Context(), owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, furniture)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	owner := middlewares.OwnerFromContext(r.Context())
	id := mux.Vars(r)["id"]

	furniture, err := h.furniture.FindByIDForOwner(r.Context(), id, owner.ID)
	if err != nil {
		respondError(h.render, w, err)
		return
	}
	if furniture == nil {
		respondError(h.render, w, apperrors.NotFound("Furniture not found"))
		return
	}
	_ = h.render.JSON(w, http.StatusOK, furniture)
}
