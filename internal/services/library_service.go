package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tunestream/internal/models"
	"tunestream/internal/repositories"
	"tunestream/pkg/events"
)

// ErrPlaylistNotFound is returned for playlists that do not exist or
// belong to another user; the two cases are indistinguishable so that
// foreign playlist ids cannot be confirmed.
var ErrPlaylistNotFound = errors.New("playlist not found")

// LibraryService handles a user's likes and playlists. Every operation
// is scoped to the authenticated caller's id; playlist mutations verify
// ownership before touching membership rows.
type LibraryService struct {
	likeRepo     repositories.LikeRepository
	playlistRepo repositories.PlaylistRepository
	mqClient     *events.Client // nil disables event publishing
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(likeRepo repositories.LikeRepository, playlistRepo repositories.PlaylistRepository, mqClient *events.Client) *LibraryService {
	return &LibraryService{
		likeRepo:     likeRepo,
		playlistRepo: playlistRepo,
		mqClient:     mqClient,
	}
}

// LikedSongs returns the songs the user has liked, empty when none.
func (s *LibraryService) LikedSongs(userID uint) ([]models.Song, error) {
	return s.likeRepo.SongsLikedBy(userID)
}

// LikeSong records a like. Liking an already-liked song is a silent
// success.
func (s *LibraryService) LikeSong(userID, songID uint) error {
	if err := s.likeRepo.Add(userID, songID); err != nil {
		return err
	}
	s.publishEvent("song.liked", map[string]interface{}{
		"userId": userID,
		"songId": songID,
	})
	return nil
}

// UnlikeSong removes a like, succeeding whether or not one existed.
func (s *LibraryService) UnlikeSong(userID, songID uint) error {
	return s.likeRepo.Remove(userID, songID)
}

// UserPlaylists returns the caller's playlists, empty when none.
func (s *LibraryService) UserPlaylists(userID uint) ([]models.Playlist, error) {
	return s.playlistRepo.GetByUser(userID)
}

// CreatePlaylist creates a named playlist owned by the caller.
func (s *LibraryService) CreatePlaylist(userID uint, name string) (*models.Playlist, error) {
	playlist := &models.Playlist{
		UserID: userID,
		Name:   name,
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	s.publishEvent("playlist.created", map[string]interface{}{
		"userId":     userID,
		"playlistId": playlist.ID,
		"name":       playlist.Name,
	})
	return playlist, nil
}

// GetPlaylist returns the playlist and its songs when it is owned by
// the caller; otherwise ErrPlaylistNotFound.
func (s *LibraryService) GetPlaylist(userID, playlistID uint) (*models.Playlist, []models.Song, error) {
	playlist, err := s.ownedPlaylist(userID, playlistID)
	if err != nil {
		return nil, nil, err
	}
	songs, err := s.playlistRepo.SongsIn(playlist.ID)
	if err != nil {
		return nil, nil, err
	}
	return playlist, songs, nil
}

// AddPlaylistSong adds a song to a playlist owned by the caller.
// Adding a song already present is a silent success.
func (s *LibraryService) AddPlaylistSong(userID, playlistID, songID uint) error {
	if _, err := s.ownedPlaylist(userID, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.AddSong(playlistID, songID)
}

// RemovePlaylistSong removes a song from a playlist owned by the
// caller, succeeding whether or not the song was present.
func (s *LibraryService) RemovePlaylistSong(userID, playlistID, songID uint) error {
	if _, err := s.ownedPlaylist(userID, playlistID); err != nil {
		return err
	}
	return s.playlistRepo.RemoveSong(playlistID, songID)
}

func (s *LibraryService) ownedPlaylist(userID, playlistID uint) (*models.Playlist, error) {
	playlist, err := s.playlistRepo.GetOwned(playlistID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return playlist, nil
}

// publishEvent sends an activity event when a broker is configured.
func (s *LibraryService) publishEvent(eventType string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
