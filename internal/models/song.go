package models

// Song represents a track in the catalog. Songs are seeded once and
// never mutated by users.
type Song struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Title    string `json:"title" gorm:"type:varchar(255)"`
	Artist   string `json:"artist" gorm:"type:varchar(255)"`
	AudioURL string `json:"audio_url"`
	ImageURL string `json:"image_url"`
}
