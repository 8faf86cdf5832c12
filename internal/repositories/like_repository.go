package repositories

import "tunestream/internal/models"

// LikeRepository defines the interface for like data access. Add and
// Remove are idempotent: repeating either leaves the store unchanged
// and reports success.
type LikeRepository interface {
	Add(userID, songID uint) error
	Remove(userID, songID uint) error
	SongsLikedBy(userID uint) ([]models.Song, error)
}
