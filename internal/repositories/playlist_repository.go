package repositories

import "tunestream/internal/models"

// PlaylistRepository defines the interface for playlist data access.
// AddSong and RemoveSong are idempotent like the like operations.
type PlaylistRepository interface {
	Create(playlist *models.Playlist) error
	GetByUser(userID uint) ([]models.Playlist, error)
	// GetOwned returns the playlist only when it exists AND belongs to
	// userID; both failures collapse into ErrNotFound.
	GetOwned(id, userID uint) (*models.Playlist, error)
	AddSong(playlistID, songID uint) error
	RemoveSong(playlistID, songID uint) error
	SongsIn(playlistID uint) ([]models.Song, error)
}
