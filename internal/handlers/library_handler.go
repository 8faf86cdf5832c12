package handlers

import (
	"errors"
	"log"

	"tunestream/internal/middleware"
	"tunestream/internal/models"
	"tunestream/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LibraryHandler handles HTTP requests for likes and playlists. All of
// its routes sit behind the auth middleware.
type LibraryHandler struct {
	service  *services.LibraryService
	validate *validator.Validate
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(service *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the protected library routes.
func (h *LibraryHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/me/likes", h.HandleLikedSongs)
	router.Post("/likes", h.HandleLikeSong)
	router.Delete("/likes/:songId", h.HandleUnlikeSong)

	router.Get("/me/playlists", h.HandleUserPlaylists)
	router.Post("/playlists", h.HandleCreatePlaylist)
	router.Get("/playlists/:id", h.HandleGetPlaylist)
	router.Post("/playlists/:id/songs", h.HandleAddPlaylistSong)
	router.Delete("/playlists/:id/songs/:songId", h.HandleRemovePlaylistSong)
}

// LikeRequest represents the request body for liking a song.
type LikeRequest struct {
	SongID uint `json:"songId" validate:"required"`
}

// CreatePlaylistRequest represents the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddPlaylistSongRequest represents the request body for adding a song
// to a playlist.
type AddPlaylistSongRequest struct {
	SongID uint `json:"songId" validate:"required"`
}

// playlistResponse is a playlist together with its songs.
type playlistResponse struct {
	models.Playlist
	Songs []models.Song `json:"songs"`
}

// HandleLikedSongs returns the caller's liked songs.
func (h *LibraryHandler) HandleLikedSongs(c *fiber.Ctx) error {
	songs, err := h.service.LikedSongs(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing liked songs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve likes",
		})
	}
	return c.JSON(songs)
}

// HandleLikeSong records a like for the caller.
func (h *LibraryHandler) HandleLikeSong(c *fiber.Ctx) error {
	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Song id required",
		})
	}

	if err := h.service.LikeSong(middleware.UserID(c), req.SongID); err != nil {
		log.Printf("Error liking song: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not like song",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleUnlikeSong removes a like for the caller.
func (h *LibraryHandler) HandleUnlikeSong(c *fiber.Ctx) error {
	songID, err := c.ParamsInt("songId")
	if err != nil || songID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid song id",
		})
	}

	if err := h.service.UnlikeSong(middleware.UserID(c), uint(songID)); err != nil {
		log.Printf("Error unliking song: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not unlike song",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleUserPlaylists returns the caller's playlists.
func (h *LibraryHandler) HandleUserPlaylists(c *fiber.Ctx) error {
	playlists, err := h.service.UserPlaylists(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing playlists: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve playlists",
		})
	}
	return c.JSON(playlists)
}

// HandleCreatePlaylist creates a named playlist owned by the caller.
func (h *LibraryHandler) HandleCreatePlaylist(c *fiber.Ctx) error {
	var req CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Playlist name required",
		})
	}

	playlist, err := h.service.CreatePlaylist(middleware.UserID(c), req.Name)
	if err != nil {
		log.Printf("Error creating playlist: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create playlist",
		})
	}
	return c.JSON(fiber.Map{
		"id":   playlist.ID,
		"name": playlist.Name,
	})
}

// HandleGetPlaylist returns a playlist and its songs. Playlists that
// do not exist or belong to another user both report 404.
func (h *LibraryHandler) HandleGetPlaylist(c *fiber.Ctx) error {
	playlistID, err := c.ParamsInt("id")
	if err != nil || playlistID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid playlist id",
		})
	}

	playlist, songs, err := h.service.GetPlaylist(middleware.UserID(c), uint(playlistID))
	if err != nil {
		if errors.Is(err, services.ErrPlaylistNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Playlist not found",
			})
		}
		log.Printf("Error getting playlist %d: %v", playlistID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve playlist",
		})
	}

	return c.JSON(playlistResponse{
		Playlist: *playlist,
		Songs:    songs,
	})
}

// HandleAddPlaylistSong adds a song to a playlist owned by the caller.
func (h *LibraryHandler) HandleAddPlaylistSong(c *fiber.Ctx) error {
	playlistID, err := c.ParamsInt("id")
	if err != nil || playlistID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid playlist id",
		})
	}

	var req AddPlaylistSongRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Song id required",
		})
	}

	err = h.service.AddPlaylistSong(middleware.UserID(c), uint(playlistID), req.SongID)
	if err != nil {
		if errors.Is(err, services.ErrPlaylistNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Playlist not found",
			})
		}
		log.Printf("Error adding song to playlist %d: %v", playlistID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add song to playlist",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleRemovePlaylistSong removes a song from a playlist owned by the
// caller.
func (h *LibraryHandler) HandleRemovePlaylistSong(c *fiber.Ctx) error {
	playlistID, err := c.ParamsInt("id")
	if err != nil || playlistID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid playlist id",
		})
	}
	songID, err := c.ParamsInt("songId")
	if err != nil || songID < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid song id",
		})
	}

	err = h.service.RemovePlaylistSong(middleware.UserID(c), uint(playlistID), uint(songID))
	if err != nil {
		if errors.Is(err, services.ErrPlaylistNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Playlist not found",
			})
		}
		log.Printf("Error removing song from playlist %d: %v", playlistID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not remove song from playlist",
		})
	}
	return c.JSON(fiber.Map{"success": true})
}
