// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Image is one stored listing photo. Key is the object-storage key so the
// object can be removed when the listing is deleted; URL is what clients
// render. Order within a listing's Images slice is the display order.
type Image struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
