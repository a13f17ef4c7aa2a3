package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"github.com/designdekhoo/catalog-api/app/helpers"
	"github.com/designdekhoo/catalog-api/app/models"
	"github.com/designdekhoo/catalog-api/app/repositories"
	"github.com/designdekhoo/catalog-api/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func newTestValidator() *validator.Validate {
	return validator.New()
}

func decodeInto(rec *httptest.ResponseRecorder, dst interface{}) error {
	return json.Unmarshal(rec.Body.Bytes(), dst)
}

// errDuplicate mimics the MySQL unique-violation text the duplicate check
// looks for.
func errDuplicate(column string) error {
	return fmt.Errorf("Error 1062: Duplicate entry for key '%s'", column)
}

func authedContext(ctx context.Context, owner *models.ShopOwner) context.Context {
	ctx = context.WithValue(ctx, helpers.ContextKeyOwnerID, owner.ID)
	return context.WithValue(ctx, helpers.ContextKeyOwner, owner)
}

func authedRequest(r *http.Request, owner *models.ShopOwner) *http.Request {
	return r.WithContext(authedContext(r.Context(), owner))
}

type memSessionStore struct {
	token string
}

func (m *memSessionStore) GetToken(r *http.Request) string { return m.token }

func (m *memSessionStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	m.token = token
	return nil
}

func (m *memSessionStore) ClearToken(w http.ResponseWriter, r *http.Request) error {
	m.token = ""
	return nil
}

type memOwners struct {
	owners map[string]*models.ShopOwner
}

func newMemOwners() *memOwners {
	return &memOwners{owners: map[string]*models.ShopOwner{}}
}

func (m *memOwners) Create(ctx context.Context, owner *models.ShopOwner) error {
	owner.Email = strings.ToLower(strings.TrimSpace(owner.Email))
	for _, existing := range m.owners {
		if existing.Email == owner.Email {
			return errDuplicate("email")
		}
		if existing.MobileNumber == owner.MobileNumber {
			return errDuplicate("mobile_number")
		}
	}
	if owner.ID == "" {
		owner.ID = uuid.New().String()
	}
	copied := *owner
	m.owners[owner.ID] = &copied
	return nil
}

func (m *memOwners) FindByID(ctx context.Context, id string) (*models.ShopOwner, error) {
	owner, ok := m.owners[id]
	if !ok {
		return nil, nil
	}
	copied := *owner
	return &copied, nil
}

func (m *memOwners) FindByEmail(ctx context.Context, email string) (*models.ShopOwner, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, owner := range m.owners {
		if owner.Email == email {
			copied := *owner
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memOwners) FindByMobile(ctx context.Context, mobile string) (*models.ShopOwner, error) {
	for _, owner := range m.owners {
		if owner.MobileNumber == mobile {
			copied := *owner
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memOwners) Update(ctx context.Context, owner *models.ShopOwner) error {
	for _, existing := range m.owners {
		if existing.ID != owner.ID && existing.MobileNumber == owner.MobileNumber {
			return errDuplicate("mobile_number")
		}
	}
	copied := *owner
	m.owners[owner.ID] = &copied
	return nil
}

func (m *memOwners) SavePasswordResetToken(ctx context.Context, ownerID string, token *string, expiresAt *time.Time) error {
	owner, ok := m.owners[ownerID]
	if !ok {
		return errors.New("owner not found")
	}
	owner.PasswordResetToken = token
	owner.PasswordResetExpires = expiresAt
	return nil
}

func (m *memOwners) FindByPasswordResetToken(ctx context.Context, token string) (*models.ShopOwner, error) {
	for _, owner := range m.owners {
		if owner.PasswordResetToken != nil && *owner.PasswordResetToken == token &&
			owner.PasswordResetExpires != nil && owner.PasswordResetExpires.After(time.Now()) {
			copied := *owner
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memOwners) ResetPassword(ctx context.Context, ownerID string, newPasswordHash string) error {
	owner, ok := m.owners[ownerID]
	if !ok {
		return errors.New("owner not found")
	}
	owner.Password = newPasswordHash
	owner.PasswordResetToken = nil
	owner.PasswordResetExpires = nil
	return nil
}

type memCategories struct {
	categories map[string]*models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{categories: map[string]*models.Category{}}
}

func (m *memCategories) Create(ctx context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if existing.ShopOwnerID == category.ShopOwnerID && existing.Name == category.Name {
			return errDuplicate("idx_category_name_owner")
		}
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memCategories) FindByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	var out []models.Category
	for _, category := range m.categories {
		if category.ShopOwnerID == ownerID {
			out = append(out, *category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCategories) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok || category.ShopOwnerID != ownerID {
		return nil, nil
	}
	copied := *category
	return &copied, nil
}

func (m *memCategories) FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Category, error) {
	for _, category := range m.categories {
		if category.ShopOwnerID == ownerID && category.Name == name {
			copied := *category
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Update(ctx context.Context, category *models.Category) error {
	for _, existing := range m.categories {
		if existing.ID != category.ID && existing.ShopOwnerID == category.ShopOwnerID && existing.Name == category.Name {
			return errDuplicate("idx_category_name_owner")
		}
	}
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *memCategories) Delete(ctx context.Context, id, ownerID string) error {
	category, ok := m.categories[id]
	if ok && category.ShopOwnerID == ownerID {
		delete(m.categories, id)
	}
	return nil
}

type memMaterials struct {
	materials map[string]*models.Material
}

func newMemMaterials() *memMaterials {
	return &memMaterials{materials: map[string]*models.Material{}}
}

func (m *memMaterials) Create(ctx context.Context, material *models.Material) error {
	for _, existing := range m.materials {
		if existing.ShopOwnerID == material.ShopOwnerID && existing.Name == material.Name {
			return errDuplicate("idx_material_name_owner")
		}
	}
	if material.ID == "" {
		material.ID = uuid.New().String()
	}
	copied := *material
	m.materials[material.ID] = &copied
	return nil
}

func (m *memMaterials) FindByOwner(ctx context.Context, ownerID string) ([]models.Material, error) {
	var out []models.Material
	for _, material := range m.materials {
		if material.ShopOwnerID == ownerID {
			out = append(out, *material)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memMaterials) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Material, error) {
	material, ok := m.materials[id]
	if !ok || material.ShopOwnerID != ownerID {
		return nil, nil
	}
	copied := *material
	return &copied, nil
}

func (m *memMaterials) FindByNameForOwner(ctx context.Context, name, ownerID string) (*models.Material, error) {
	for _, material := range m.materials {
		if material.ShopOwnerID == ownerID && material.Name == name {
			copied := *material
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memMaterials) Update(ctx context.Context, material *models.Material) error {
	for _, existing := range m.materials {
		if existing.ID != material.ID && existing.ShopOwnerID == material.ShopOwnerID && existing.Name == material.Name {
			return errDuplicate("idx_material_name_owner")
		}
	}
	copied := *material
	m.materials[material.ID] = &copied
	return nil
}

func (m *memMaterials) Delete(ctx context.Context, id, ownerID string) error {
	material, ok := m.materials[id]
	if ok && material.ShopOwnerID == ownerID {
		delete(m.materials, id)
	}
	return nil
}

type memFurniture struct {
	furniture map[string]*models.Furniture
	// ownerCities backs the city filter the SQL implementation resolves
	// through a join on shop_owners.
	ownerCities map[string]string
}

func newMemFurniture() *memFurniture {
	return &memFurniture{
		furniture:   map[string]*models.Furniture{},
		ownerCities: map[string]string{},
	}
}

func (m *memFurniture) Create(ctx context.Context, furniture *models.Furniture) error {
	if furniture.ID == "" {
		furniture.ID = uuid.New().String()
	}
	for i := range furniture.Images {
		if furniture.Images[i].ID == "" {
			furniture.Images[i].ID = uuid.New().String()
		}
		furniture.Images[i].FurnitureID = furniture.ID
		furniture.Images[i].Position = i
	}
	copied := *furniture
	copied.Images = append([]models.FurnitureImage(nil), furniture.Images...)
	m.furniture[furniture.ID] = &copied
	return nil
}

func (m *memFurniture) FindByOwner(ctx context.Context, ownerID string) ([]models.Furniture, error) {
	var out []models.Furniture
	for _, f := range m.furniture {
		if f.ShopOwnerID == ownerID {
			out = append(out, *f)
		}
	}
	// Newest first, matching the SQL implementation's ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memFurniture) FindByIDForOwner(ctx context.Context, id, ownerID string) (*models.Furniture, error) {
	f, ok := m.furniture[id]
	if !ok || f.ShopOwnerID != ownerID {
		return nil, nil
	}
	copied := *f
	copied.Images = append([]models.FurnitureImage(nil), f.Images...)
	return &copied, nil
}

func (m *memFurniture) Update(ctx context.Context, furniture *models.Furniture) error {
	stored, ok := m.furniture[furniture.ID]
	if !ok {
		return errors.New("furniture not found")
	}
	copied := *furniture
	// Images travel through ReplaceImages, matching the SQL implementation.
	copied.Images = stored.Images
	m.furniture[furniture.ID] = &copied
	return nil
}

func (m *memFurniture) ReplaceImages(ctx context.Context, furnitureID string, images []models.FurnitureImage) error {
	f, ok := m.furniture[furnitureID]
	if !ok {
		return errors.New("furniture not found")
	}
	replaced := append([]models.FurnitureImage(nil), images...)
	for i := range replaced {
		if replaced[i].ID == "" {
			replaced[i].ID = uuid.New().String()
		}
		replaced[i].FurnitureID = furnitureID
		replaced[i].Position = i
	}
	f.Images = replaced
	return nil
}

func (m *memFurniture) Delete(ctx context.Context, id, ownerID string) error {
	f, ok := m.furniture[id]
	if ok && f.ShopOwnerID == ownerID {
		delete(m.furniture, id)
	}
	return nil
}

func (m *memFurniture) Search(ctx context.Context, filter repositories.CatalogFilter) ([]models.Furniture, error) {
	var out []models.Furniture
	for _, f := range m.furniture {
		if filter.Category != "" && f.Category != filter.Category {
			continue
		}
		if filter.Material != "" && f.Material != filter.Material {
			continue
		}
		if filter.MinPrice != nil && f.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && f.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		if filter.City != "" {
			city := strings.ToLower(m.ownerCities[f.ShopOwnerID])
			if !strings.Contains(city, strings.ToLower(filter.City)) {
				continue
			}
		}
		out = append(out, *f)
	}
	return out, nil
}

func (m *memFurniture) FindByShop(ctx context.Context, shopOwnerID string) ([]models.Furniture, error) {
	var out []models.Furniture
	for _, f := range m.furniture {
		if f.ShopOwnerID == shopOwnerID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memFurniture) CountByCategoryName(ctx context.Context, ownerID, name string) (int64, error) {
	var count int64
	for _, f := range m.furniture {
		if f.ShopOwnerID == ownerID && f.Category == name {
			count++
		}
	}
	return count, nil
}

func (m *memFurniture) CountByMaterialName(ctx context.Context, ownerID, name string) (int64, error) {
	var count int64
	for _, f := range m.furniture {
		if f.ShopOwnerID == ownerID && f.Material == name {
			count++
		}
	}
	return count, nil
}

type recordingImageStore struct {
	uploads   []string
	deletes   []string
	deleteErr map[string]error
	seq       int
}

func (s *recordingImageStore) Upload(ctx context.Context, file io.Reader, filename string) (*services.UploadedImage, error) {
	s.uploads = append(s.uploads, filename)
	s.seq++
	return &services.UploadedImage{
		URL:      fmt.Sprintf("https://img.example/%s", filename),
		PublicID: fmt.Sprintf("catalog/upload-%d", s.seq),
	}, nil
}

func (s *recordingImageStore) Delete(ctx context.Context, publicID string) error {
	s.deletes = append(s.deletes, publicID)
	if err, ok := s.deleteErr[publicID]; ok {
		return err
	}
	return nil
}
