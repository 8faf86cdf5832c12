package repositories

import (
	"errors"
	"fmt"

	"tunestream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPlaylistRepository is a GORM implementation of PlaylistRepository.
type GORMPlaylistRepository struct {
	db *gorm.DB
}

// NewGORMPlaylistRepository creates a new instance of GORMPlaylistRepository.
func NewGORMPlaylistRepository(db *gorm.DB) *GORMPlaylistRepository {
	return &GORMPlaylistRepository{
		db: db,
	}
}

// Create inserts a new playlist and fills in its generated ID.
func (r *GORMPlaylistRepository) Create(playlist *models.Playlist) error {
	if err := r.db.Create(playlist).Error; err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// GetByUser returns every playlist owned by the user, empty when none.
func (r *GORMPlaylistRepository) GetByUser(userID uint) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0)
	if err := r.db.Where("user_id = ?", userID).Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to get playlists for user %d: %w", userID, err)
	}
	return playlists, nil
}

// GetOwned returns the playlist only if it belongs to userID. A
// playlist owned by someone else is reported as ErrNotFound, exactly
// like a playlist that does not exist.
func (r *GORMPlaylistRepository) GetOwned(id, userID uint) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.First(&playlist, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get playlist %d: %w", id, err)
	}
	return &playlist, nil
}

// AddSong records playlist membership. Duplicate inserts are a no-op.
func (r *GORMPlaylistRepository) AddSong(playlistID, songID uint) error {
	row := models.PlaylistSong{PlaylistID: playlistID, SongID: songID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to add song %d to playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// RemoveSong deletes playlist membership, succeeding whether or not a
// row existed.
func (r *GORMPlaylistRepository) RemoveSong(playlistID, songID uint) error {
	err := r.db.Where("playlist_id = ? AND song_id = ?", playlistID, songID).
		Delete(&models.PlaylistSong{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove song %d from playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// SongsIn returns the songs in a playlist, empty when none.
func (r *GORMPlaylistRepository) SongsIn(playlistID uint) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	err := r.db.Model(&models.Song{}).
		Joins("JOIN playlist_songs ON playlist_songs.song_id = songs.id").
		Where("playlist_songs.playlist_id = ?", playlistID).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get songs in playlist %d: %w", playlistID, err)
	}
	return songs, nil
}
