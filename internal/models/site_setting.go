// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SiteSettings is the site branding document as a key/value map: logo and
// hero image URLs, brand colors, contact details, footer text. Keys are
// free-form; the admin UI owns the vocabulary.
type SiteSettings map[string]string
