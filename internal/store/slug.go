// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"clutchzone/internal/slug"
)

// maxSlugRetries bounds how many times a write is retried after losing a
// slug race to a concurrent writer. Each retry re-probes against committed
// rows, so one retry normally suffices.
const maxSlugRetries = 3

// ErrSlugConflict is returned when slug allocation keeps colliding even
// after retries. Callers should surface it as a transient conflict.
var ErrSlugConflict = errors.New("slug allocation conflict")

// slugExists reports whether a slug is already taken in a collection,
// ignoring the row identified by excludePK (empty string ignores nothing).
type slugExists func(slugVal, excludePK string) (bool, error)

// allocateSlug finds a slug for title that is free in the collection probed
// by exists. It starts from the slugified title and appends an increasing
// numeric suffix until the probe reports no collision. On edit, excludePK
// keeps a record from colliding with its own unchanged slug.
//
// The probe is best-effort: two concurrent writers can both see the same
// candidate as free. The partial unique index on each listing table is the
// actual guarantor; writers retry allocation when the insert trips it.
func allocateSlug(title, excludePK string, exists slugExists) (string, error) {
	base := slug.Generate(title)
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate, excludePK)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505), the signature of a lost slug race.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
