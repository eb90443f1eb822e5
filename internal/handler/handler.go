package handler

import (
	"github.com/leca/showroom-gallery/internal/auth"
	"github.com/leca/showroom-gallery/internal/catalog"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Catalog catalog.Catalog
	Auth    auth.Authenticator
}
