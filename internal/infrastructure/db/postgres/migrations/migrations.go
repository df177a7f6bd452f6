// Package migrations embeds the goose SQL migrations of both services.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed auth/*.sql
var authFS embed.FS

//go:embed products/*.sql
var productsFS embed.FS

const (
	AuthVersionTable     = "goose_auth_version"
	ProductsVersionTable = "goose_products_version"
)

// Auth returns the auth-service migrations rooted at ".".
func Auth() fs.FS {
	sub, _ := fs.Sub(authFS, "auth")
	return sub
}

// Products returns the product-service migrations rooted at ".".
func Products() fs.FS {
	sub, _ := fs.Sub(productsFS, "products")
	return sub
}
