package handlers

import (
	"log"

	"tunestream/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the public song catalog.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/songs", h.HandleListSongs)
}

// HandleListSongs returns every song in the catalog.
func (h *CatalogHandler) HandleListSongs(c *fiber.Ctx) error {
	songs, err := h.service.ListSongs()
	if err != nil {
		log.Printf("Error listing songs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve songs",
		})
	}
	return c.JSON(songs)
}
