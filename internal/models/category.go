// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category is a node in the self-referencing admin navigation tree.
// Names are bilingual; ParentID is nil for roots. There is deliberately
// no foreign key behind ParentID: deleting a parent leaves children with
// a dangling reference, and the tree builder drops such subtrees from
// the rendered hierarchy.
type Category struct {
	ID        string    `json:"_id"`
	NameAR    string    `json:"name_ar"`
	NameEN    string    `json:"name_en"`
	LogoURL   string    `json:"logo_url,omitempty"`
	ParentID  *string   `json:"parent_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}
