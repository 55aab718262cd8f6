// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clutchzone/internal/cache"
	"clutchzone/internal/models"
	"clutchzone/internal/pk"
	"clutchzone/internal/storage"
	"clutchzone/internal/store"
)

const (
	// maxUploadBytes caps a whole multipart upload request.
	maxUploadBytes = 50 << 20

	// maxImagesPerUpload caps files per request, matching the per-listing
	// image limit.
	maxImagesPerUpload = 10
)

// Admin groups the authenticated back-office handlers.
type Admin struct {
	cars       *store.CarStore
	properties *store.PropertyStore
	categories *store.CategoryStore
	orders     *store.OrderStore
	settings   *store.SiteSettingStore
	storage    *storage.Client      // nil when object storage is unconfigured
	setCache   *cache.SettingsCache // nil when Valkey is absent
}

// NewAdmin creates the admin handler group. storage and setCache may be
// nil; uploads then return 503 and settings skip the cache.
func NewAdmin(cars *store.CarStore, properties *store.PropertyStore,
	categories *store.CategoryStore, orders *store.OrderStore,
	settings *store.SiteSettingStore, st *storage.Client,
	setCache *cache.SettingsCache) *Admin {
	return &Admin{
		cars:       cars,
		properties: properties,
		categories: categories,
		orders:     orders,
		settings:   settings,
		storage:    st,
		setCache:   setCache,
	}
}

// CreateCar inserts a vehicle listing with a freshly allocated slug.
func (a *Admin) CreateCar(w http.ResponseWriter, r *http.Request) {
	var payload carPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	car, err := a.cars.Create(&models.Car{
		Title:        payload.Title,
		Brand:        payload.Brand,
		Model:        payload.Model,
		Year:         payload.Year,
		Mileage:      payload.Mileage,
		Price:        payload.Price,
		Description:  payload.Description,
		Images:       payload.Images,
		Featured:     payload.Featured,
		DisplayOrder: payload.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugConflict) {
			writeError(w, http.StatusConflict, "Could not allocate a unique slug, retry")
			return
		}
		writeServerError(w, "create car failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

// UpdateCar replaces a vehicle listing. The slug only changes when the
// title does.
func (a *Admin) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var payload carPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	car, err := a.cars.Update(&models.Car{
		ID:           id,
		Title:        payload.Title,
		Brand:        payload.Brand,
		Model:        payload.Model,
		Year:         payload.Year,
		Mileage:      payload.Mileage,
		Price:        payload.Price,
		Description:  payload.Description,
		Images:       payload.Images,
		Featured:     payload.Featured,
		DisplayOrder: payload.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugConflict) {
			writeError(w, http.StatusConflict, "Could not allocate a unique slug, retry")
			return
		}
		writeServerError(w, "update car failed", err)
		return
	}
	if car == nil {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// DeleteCar removes a vehicle listing and its stored images.
func (a *Admin) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	car, err := a.cars.FindByID(id)
	if err != nil {
		writeServerError(w, "delete car lookup failed", err)
		return
	}
	if car == nil {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}

	if err := a.cars.Delete(id); err != nil {
		writeServerError(w, "delete car failed", err)
		return
	}
	a.removeImages(r, car.Images)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Car deleted"})
}

// UploadCarImages stores multipart files in S3 and appends them to the
// listing's image list.
func (a *Admin) UploadCarImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	images, ok := a.uploadImages(w, r, models.ItemTypeCar)
	if !ok {
		return
	}

	car, err := a.cars.AddImages(id, images)
	if err != nil {
		writeServerError(w, "attach car images failed", err)
		return
	}
	if car == nil {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// ReorderCars applies a batch of display_order updates.
func (a *Admin) ReorderCars(w http.ResponseWriter, r *http.Request) {
	a.reorder(w, r, a.cars.SetDisplayOrder)
}

// CreateProperty inserts a real-estate listing.
func (a *Admin) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var payload propertyPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	property, err := a.properties.Create(&models.Property{
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Location:     payload.Location,
		Bedrooms:     payload.Bedrooms,
		Bathrooms:    payload.Bathrooms,
		Area:         payload.Area,
		Features:     payload.Features,
		Images:       payload.Images,
		Status:       payload.Status,
		Featured:     payload.Featured,
		DisplayOrder: payload.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugConflict) {
			writeError(w, http.StatusConflict, "Could not allocate a unique slug, retry")
			return
		}
		writeServerError(w, "create property failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, property)
}

// UpdateProperty replaces a real-estate listing.
func (a *Admin) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var payload propertyPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	property, err := a.properties.Update(&models.Property{
		ID:           id,
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Location:     payload.Location,
		Bedrooms:     payload.Bedrooms,
		Bathrooms:    payload.Bathrooms,
		Area:         payload.Area,
		Features:     payload.Features,
		Images:       payload.Images,
		Status:       payload.Status,
		Featured:     payload.Featured,
		DisplayOrder: payload.DisplayOrder,
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugConflict) {
			writeError(w, http.StatusConflict, "Could not allocate a unique slug, retry")
			return
		}
		writeServerError(w, "update property failed", err)
		return
	}
	if property == nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// DeleteProperty removes a real-estate listing and its stored images.
func (a *Admin) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	property, err := a.properties.FindByID(id)
	if err != nil {
		writeServerError(w, "delete property lookup failed", err)
		return
	}
	if property == nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}

	if err := a.properties.Delete(id); err != nil {
		writeServerError(w, "delete property failed", err)
		return
	}
	a.removeImages(r, property.Images)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Property deleted"})
}

// UploadPropertyImages stores multipart files in S3 and appends them to
// the listing's image list.
func (a *Admin) UploadPropertyImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	images, ok := a.uploadImages(w, r, models.ItemTypeProperty)
	if !ok {
		return
	}

	property, err := a.properties.AddImages(id, images)
	if err != nil {
		writeServerError(w, "attach property images failed", err)
		return
	}
	if property == nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// ReorderProperties applies a batch of display_order updates.
func (a *Admin) ReorderProperties(w http.ResponseWriter, r *http.Request) {
	a.reorder(w, r, a.properties.SetDisplayOrder)
}

// CreateCategory inserts a category node. The referenced parent must
// exist at insert time.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	category, err := a.categories.Create(&models.Category{
		NameAR:   payload.NameAR,
		NameEN:   payload.NameEN,
		LogoURL:  payload.LogoURL,
		ParentID: payload.ParentID,
	})
	if err != nil {
		if errors.Is(err, store.ErrParentNotFound) {
			writeError(w, http.StatusBadRequest, "Parent category not found")
			return
		}
		writeServerError(w, "create category failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a category node. Children are left in place
// with a dangling parent reference and disappear from the public tree.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := a.categories.Delete(id); err != nil {
		writeServerError(w, "delete category failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// UploadCategoryLogo uploads a single logo file and stores its URL on
// the category.
func (a *Admin) UploadCategoryLogo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing logo file")
		return
	}
	defer file.Close()

	if !isImageUpload(header.Header.Get("Content-Type")) {
		writeError(w, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	key := storage.ListingKey("category", header.Filename)
	if err := a.storage.Upload(r.Context(), key, header.Header.Get("Content-Type"), file, header.Size); err != nil {
		writeServerError(w, "logo upload failed", err)
		return
	}

	category, err := a.categories.SetLogo(id, a.storage.FileURL(key))
	if err != nil {
		writeServerError(w, "save category logo failed", err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// ListOrders returns all purchase requests, newest first.
func (a *Admin) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.List()
	if err != nil {
		writeServerError(w, "list orders failed", err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus moves an order through the lead workflow.
func (a *Admin) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}

	var payload orderStatusPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	order, err := a.orders.UpdateStatus(id, payload.Status)
	if err != nil {
		writeServerError(w, "update order status failed", err)
		return
	}
	if order == nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// DeleteOrder removes a purchase request.
func (a *Admin) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	if err := a.orders.Delete(id); err != nil {
		writeServerError(w, "delete order failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

// UpdateSettings upserts site-setting keys and drops the Valkey copy.
func (a *Admin) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := a.settings.SetMany(payload.Settings); err != nil {
		writeServerError(w, "update settings failed", err)
		return
	}
	if a.setCache != nil {
		a.setCache.Invalidate(r.Context())
	}

	settings, err := a.settings.All()
	if err != nil {
		writeServerError(w, "reload settings failed", err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// uploadImages reads multipart files from the "images" field, stores
// each in S3 under the item-type namespace, and returns the image
// records. Reports false after writing an error response.
func (a *Admin) uploadImages(w http.ResponseWriter, r *http.Request, itemType string) ([]models.Image, bool) {
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Object storage is not configured")
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return nil, false
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No image files provided")
		return nil, false
	}
	if len(files) > maxImagesPerUpload {
		writeError(w, http.StatusBadRequest, "At most 10 images per upload")
		return nil, false
	}

	images := make([]models.Image, 0, len(files))
	for _, header := range files {
		if !isImageUpload(header.Header.Get("Content-Type")) {
			writeError(w, http.StatusBadRequest, "Only image uploads are accepted")
			return nil, false
		}

		file, err := header.Open()
		if err != nil {
			writeServerError(w, "open uploaded file failed", err)
			return nil, false
		}

		key := storage.ListingKey(itemType, header.Filename)
		err = a.storage.Upload(r.Context(), key, header.Header.Get("Content-Type"), file, header.Size)
		file.Close()
		if err != nil {
			writeServerError(w, "image upload failed", err)
			return nil, false
		}

		images = append(images, models.Image{
			URL: a.storage.FileURL(key),
			Key: key,
		})
	}
	return images, true
}

// removeImages best-effort deletes stored objects for a removed listing.
// Failures are logged, not surfaced: the listing row is already gone.
func (a *Admin) removeImages(r *http.Request, images []models.Image) {
	if a.storage == nil {
		return
	}
	for _, img := range images {
		key := img.Key
		if key == "" {
			// Legacy rows store only URLs.
			var ok bool
			if key, ok = a.storage.ExtractKey(img.URL); !ok {
				continue
			}
		}
		if err := a.storage.Delete(r.Context(), key); err != nil {
			slog.Warn("image cleanup failed", "key", key, "error", err)
		}
	}
}

// reorder is shared by the car and property reorder endpoints.
func (a *Admin) reorder(w http.ResponseWriter, r *http.Request, set func(id string, order int) error) {
	var payload reorderPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	for _, item := range payload.Items {
		if err := set(item.ID, item.DisplayOrder); err != nil {
			writeServerError(w, "reorder failed", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order updated"})
}

// isImageUpload accepts any image/* content type.
func isImageUpload(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
