// Package repository implements the storefront's data access over the
// document store: catalog, accounts, orders, settings, loyalty, analytics.
package repository

import "errors"

// Not-found sentinels. Handlers translate these into HTTP 404 responses.
// A failed dual-identifier fallback is reported as the same not-found, not
// as a distinct error.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
)
