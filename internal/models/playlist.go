package models

import "time"

// Playlist is a named song collection owned by exactly one user.
type Playlist struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Name      string    `json:"name" gorm:"type:varchar(100)" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistSong is the membership row linking a playlist to a song.
type PlaylistSong struct {
	PlaylistID uint      `json:"playlist_id" gorm:"primaryKey;autoIncrement:false"`
	SongID     uint      `json:"song_id" gorm:"primaryKey;autoIncrement:false"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`
}
