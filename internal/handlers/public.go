// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clutchzone/internal/cache"
	"clutchzone/internal/metrics"
	"clutchzone/internal/models"
	"clutchzone/internal/pk"
	"clutchzone/internal/store"
)

// Public groups the unauthenticated catalog handlers.
type Public struct {
	cars       *store.CarStore
	properties *store.PropertyStore
	categories *store.CategoryStore
	orders     *store.OrderStore
	settings   *store.SiteSettingStore
	setCache   *cache.SettingsCache // nil when Valkey is absent
}

// NewPublic creates the public handler group. setCache may be nil; the
// settings endpoint then reads straight from the database.
func NewPublic(cars *store.CarStore, properties *store.PropertyStore,
	categories *store.CategoryStore, orders *store.OrderStore,
	settings *store.SiteSettingStore, setCache *cache.SettingsCache) *Public {
	return &Public{
		cars:       cars,
		properties: properties,
		categories: categories,
		orders:     orders,
		settings:   settings,
		setCache:   setCache,
	}
}

// ListCars returns vehicle listings filtered by query parameters.
func (p *Public) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.CarFilter{
		Brand: q.Get("brand"),
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
	}
	filter.MinPrice = parseFloatParam(q.Get("minPrice"))
	filter.MaxPrice = parseFloatParam(q.Get("maxPrice"))
	filter.Featured = parseBoolParam(q.Get("featured"))

	cars, err := p.cars.List(filter)
	if err != nil {
		writeServerError(w, "list cars failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// SearchCars matches brand, model, and description against q.
func (p *Public) SearchCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []models.Car{})
		return
	}
	cars, err := p.cars.Search(q)
	if err != nil {
		writeServerError(w, "search cars failed", err)
		return
	}
	writeJSON(w, http.StatusOK, cars)
}

// GetCar resolves {identifier} as primary key or slug and returns the
// listing.
func (p *Public) GetCar(w http.ResponseWriter, r *http.Request) {
	car, err := p.cars.Resolve(chi.URLParam(r, "identifier"))
	if err != nil {
		writeServerError(w, "resolve car failed", err)
		return
	}
	if car == nil {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}
	writeJSON(w, http.StatusOK, car)
}

// ResolveCarSlug maps a legacy primary-key URL to the listing's slug so
// old links can be redirected client-side.
func (p *Public) ResolveCarSlug(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	car, err := p.cars.FindByID(id)
	if err != nil {
		writeServerError(w, "resolve car slug failed", err)
		return
	}
	if car == nil {
		writeError(w, http.StatusNotFound, "Car not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"_id": car.ID, "slug": car.Slug})
}

// ListProperties returns real-estate listings filtered by query parameters.
func (p *Public) ListProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.PropertyFilter{
		Location: q.Get("location"),
		Status:   q.Get("status"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
	}
	filter.MinPrice = parseFloatParam(q.Get("minPrice"))
	filter.MaxPrice = parseFloatParam(q.Get("maxPrice"))
	filter.Featured = parseBoolParam(q.Get("featured"))

	properties, err := p.properties.List(filter)
	if err != nil {
		writeServerError(w, "list properties failed", err)
		return
	}
	writeJSON(w, http.StatusOK, properties)
}

// GetProperty resolves {identifier} as primary key or slug.
func (p *Public) GetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := p.properties.Resolve(chi.URLParam(r, "identifier"))
	if err != nil {
		writeServerError(w, "resolve property failed", err)
		return
	}
	if property == nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, property)
}

// ResolvePropertySlug maps a legacy primary-key URL to the property's slug.
func (p *Public) ResolvePropertySlug(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "pk")
	if !pk.Valid(id) {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	}
	property, err := p.properties.FindByID(id)
	if err != nil {
		writeServerError(w, "resolve property slug failed", err)
		return
	}
	if property == nil {
		writeError(w, http.StatusNotFound, "Property not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"_id": property.ID, "slug": property.Slug})
}

// ListCategories returns the nested category hierarchy. Children of
// deleted parents are absent: the tree builder only descends through
// parents that still exist.
func (p *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	tree, err := p.categories.Tree()
	if err != nil {
		writeServerError(w, "list categories failed", err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// GetSettings returns the site branding map, served from Valkey when warm.
func (p *Public) GetSettings(w http.ResponseWriter, r *http.Request) {
	if p.setCache != nil {
		if settings, ok := p.setCache.Get(r.Context()); ok {
			writeJSON(w, http.StatusOK, settings)
			return
		}
	}

	settings, err := p.settings.All()
	if err != nil {
		writeServerError(w, "load settings failed", err)
		return
	}
	if p.setCache != nil {
		p.setCache.Set(r.Context(), settings)
	}
	writeJSON(w, http.StatusOK, settings)
}

// CreateOrder records a purchase request for a listing. The listing must
// exist; its current price is captured on the order.
func (p *Public) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload orderPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var price float64
	switch payload.ItemType {
	case models.ItemTypeCar:
		car, err := p.cars.FindByID(payload.ItemID)
		if err != nil {
			writeServerError(w, "order item lookup failed", err)
			return
		}
		if car == nil {
			writeError(w, http.StatusNotFound, "Car not found")
			return
		}
		price = car.Price
	case models.ItemTypeProperty:
		property, err := p.properties.FindByID(payload.ItemID)
		if err != nil {
			writeServerError(w, "order item lookup failed", err)
			return
		}
		if property == nil {
			writeError(w, http.StatusNotFound, "Property not found")
			return
		}
		price = property.Price
	}

	order, err := p.orders.Create(&models.Order{
		Name:         payload.Name,
		Phone:        payload.Phone,
		Email:        payload.Email,
		Message:      payload.Message,
		ItemType:     payload.ItemType,
		ItemID:       payload.ItemID,
		PriceAtOrder: price,
	})
	if err != nil {
		writeServerError(w, "create order failed", err)
		return
	}

	metrics.OrdersCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, order)
}

// parseFloatParam returns nil for empty or malformed numeric params.
func parseFloatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseBoolParam returns nil for anything but explicit true/false.
func parseBoolParam(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}
