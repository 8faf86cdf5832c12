package models

import "time"

// Like marks a song as liked by a user. The composite primary key
// guarantees at most one row per (user, song) pair.
type Like struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	SongID    uint      `json:"song_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`
}
