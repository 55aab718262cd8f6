// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"clutchzone/internal/models"
)

// validate is the shared validator instance. Struct tags on the payload
// types below carry the rules.
var validate = validator.New(validator.WithRequiredStructEnabled())

// carPayload is the create/update body for a vehicle listing.
type carPayload struct {
	Title        string         `json:"title" validate:"required,max=300"`
	Brand        string         `json:"brand" validate:"required,max=100"`
	Model        string         `json:"model" validate:"required,max=100"`
	Year         int            `json:"year" validate:"required,gte=1900,lte=2100"`
	Mileage      int            `json:"mileage" validate:"gte=0"`
	Price        float64        `json:"price" validate:"required,gt=0"`
	Description  string         `json:"description" validate:"max=10000"`
	Images       []models.Image `json:"images" validate:"omitempty,min=1,max=10,dive"`
	Featured     bool           `json:"featured"`
	DisplayOrder int            `json:"display_order" validate:"gte=0"`
}

// propertyPayload is the create/update body for a real-estate listing.
type propertyPayload struct {
	Title        string         `json:"title" validate:"required,max=300"`
	Description  string         `json:"description" validate:"max=10000"`
	Price        float64        `json:"price" validate:"required,gt=0"`
	Location     string         `json:"location" validate:"required,max=300"`
	Bedrooms     int            `json:"bedrooms" validate:"gte=0"`
	Bathrooms    int            `json:"bathrooms" validate:"gte=0"`
	Area         float64        `json:"area" validate:"gte=0"`
	Features     []string       `json:"features" validate:"max=50,dive,max=200"`
	Images       []models.Image `json:"images" validate:"omitempty,min=1,max=10,dive"`
	Status       string         `json:"status" validate:"omitempty,oneof=available sold"`
	Featured     bool           `json:"featured"`
	DisplayOrder int            `json:"display_order" validate:"gte=0"`
}

// categoryPayload is the create body for a navigation category.
type categoryPayload struct {
	NameAR   string  `json:"name_ar" validate:"required,max=200"`
	NameEN   string  `json:"name_en" validate:"required,max=200"`
	LogoURL  string  `json:"logo_url" validate:"omitempty,url,max=2000"`
	ParentID *string `json:"parent_id" validate:"omitempty,len=24,hexadecimal"`
}

// orderPayload is the public purchase-request body.
type orderPayload struct {
	Name     string `json:"name" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required,max=40"`
	Email    string `json:"email" validate:"omitempty,email,max=320"`
	Message  string `json:"message" validate:"max=2000"`
	ItemType string `json:"itemType" validate:"required,oneof=car property"`
	ItemID   string `json:"itemId" validate:"required,len=24,hexadecimal"`
}

// orderStatusPayload changes an order's workflow status.
type orderStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=pending contacted completed"`
}

// loginPayload is the admin credential body.
type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// twoFAPayload carries a 6-digit TOTP code.
type twoFAPayload struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// reorderPayload sets display_order for a batch of listings.
type reorderPayload struct {
	Items []reorderItem `json:"items" validate:"required,min=1,max=500,dive"`
}

type reorderItem struct {
	ID           string `json:"_id" validate:"required,len=24,hexadecimal"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

// settingsPayload replaces site-setting keys.
type settingsPayload struct {
	Settings map[string]string `json:"settings" validate:"required,min=1,max=200"`
}

// validationMessage flattens the first rule violation into a client-facing
// message.
func validationMessage(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("Field %q is required", fe.Field())
		case "max":
			return fmt.Sprintf("Field %q exceeds the allowed maximum (%s)", fe.Field(), fe.Param())
		case "min":
			return fmt.Sprintf("Field %q is below the allowed minimum (%s)", fe.Field(), fe.Param())
		case "oneof":
			return fmt.Sprintf("Field %q must be one of: %s", fe.Field(), fe.Param())
		case "email":
			return fmt.Sprintf("Field %q must be a valid email address", fe.Field())
		default:
			return fmt.Sprintf("Field %q is invalid", fe.Field())
		}
	}
	return "Invalid request body"
}
