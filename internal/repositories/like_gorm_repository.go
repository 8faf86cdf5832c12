package repositories

import (
	"fmt"

	"tunestream/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMLikeRepository is a GORM implementation of LikeRepository.
type GORMLikeRepository struct {
	db *gorm.DB
}

// NewGORMLikeRepository creates a new instance of GORMLikeRepository.
func NewGORMLikeRepository(db *gorm.DB) *GORMLikeRepository {
	return &GORMLikeRepository{
		db: db,
	}
}

// Add records a like. Inserting an existing (user, song) pair is a
// no-op, not an error.
func (r *GORMLikeRepository) Add(userID, songID uint) error {
	like := models.Like{UserID: userID, SongID: songID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
	if err != nil {
		return fmt.Errorf("failed to add like (user %d, song %d): %w", userID, songID, err)
	}
	return nil
}

// Remove deletes a like. Removing a non-existent like succeeds with no
// effect; RowsAffected is deliberately not checked.
func (r *GORMLikeRepository) Remove(userID, songID uint) error {
	err := r.db.Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&models.Like{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove like (user %d, song %d): %w", userID, songID, err)
	}
	return nil
}

// SongsLikedBy returns every song the user has liked, empty when none.
func (r *GORMLikeRepository) SongsLikedBy(userID uint) ([]models.Song, error) {
	songs := make([]models.Song, 0)
	err := r.db.Model(&models.Song{}).
		Joins("JOIN likes ON likes.song_id = songs.id").
		Where("likes.user_id = ?", userID).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get liked songs for user %d: %w", userID, err)
	}
	return songs, nil
}
