package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"tunestream/internal/handlers"
	"tunestream/internal/middleware"
	"tunestream/internal/models"
	"tunestream/internal/repositories"
	"tunestream/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a full Fiber app over a fresh in-memory sqlite
// database, wired exactly like main.
func setupApp(t *testing.T) (*fiber.App, repositories.UserRepository) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A named in-memory database keeps every pooled connection on the
	// same store while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Song{},
		&models.Like{},
		&models.Playlist{},
		&models.PlaylistSong{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	songRepo := repositories.NewGORMSongRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	playlistRepo := repositories.NewGORMPlaylistRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret, nil)
	catalogService := services.NewCatalogService(songRepo)
	libraryService := services.NewLibraryService(likeRepo, playlistRepo, nil)

	if err := catalogService.SeedSongs([]models.Song{
		{Title: "Mountain Echo", Artist: "The Helix", AudioURL: "https://example.com/1.mp3"},
		{Title: "Valley Breeze", Artist: "Lunar Drift", AudioURL: "https://example.com/2.mp3"},
		{Title: "Neon Rivers", Artist: "Glass Parade", AudioURL: "https://example.com/3.mp3"},
	}); err != nil {
		t.Fatalf("failed to seed songs: %v", err)
	}

	app := fiber.New()
	api := app.Group("/api")

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	handlers.NewLibraryHandler(libraryService).RegisterRoutes(protected)

	return app, userRepo
}

func jsonRequest(method, target string, body interface{}, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// registerUser registers an account and returns the minted token and
// public user projection.
func registerUser(t *testing.T, app *fiber.App, email, name, password string) authResponse {
	t.Helper()
	req := jsonRequest(http.MethodPost, "/api/register", map[string]string{
		"email": email, "name": name, "password": password,
	}, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out authResponse
	decodeBody(t, resp, &out)
	assert.NotEmpty(t, out.Token)
	return out
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t)

	// Register
	req := jsonRequest(http.MethodPost, "/api/register", map[string]string{
		"email": "a@x.com", "name": "Alice", "password": "pw1",
	}, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	// The credential hash must never leave the store boundary.
	assert.NotContains(t, string(raw), "password_hash")
	assert.NotContains(t, string(raw), "$2a$")

	var registered authResponse
	assert.NoError(t, json.Unmarshal(raw, &registered))
	assert.Equal(t, "a@x.com", registered.User.Email)
	assert.Equal(t, "Alice", registered.User.Name)
	assert.NotZero(t, registered.User.ID)

	// Duplicate registration conflicts regardless of password or name.
	req = jsonRequest(http.MethodPost, "/api/register", map[string]string{
		"email": "a@x.com", "name": "Other", "password": "different",
	}, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Login mints a fresh token for the same user.
	req = jsonRequest(http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}, "")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loggedIn authResponse
	decodeBody(t, resp, &loggedIn)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
	assert.NotEmpty(t, loggedIn.Token)

	// Wrong password and unknown email fail identically.
	for _, creds := range []map[string]string{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw1"},
	} {
		req = jsonRequest(http.MethodPost, "/api/login", creds, "")
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body map[string]interface{}
		decodeBody(t, resp, &body)
		assert.Equal(t, "Invalid email or password", body["error"])
	}
}

func TestRegisterMissingPassword(t *testing.T) {
	app, userRepo := setupApp(t)

	req := jsonRequest(http.MethodPost, "/api/register", map[string]string{
		"email": "half@x.com",
	}, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// No partial row was created.
	_, err = userRepo.GetByEmail("half@x.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestSongsArePublic(t *testing.T) {
	app, _ := setupApp(t)

	req := jsonRequest(http.MethodGet, "/api/songs", nil, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var songs []models.Song
	decodeBody(t, resp, &songs)
	assert.Len(t, songs, 3)
}

func TestLikesFlow(t *testing.T) {
	app, _ := setupApp(t)

	registerUser(t, app, "a@x.com", "Alice", "pw1")

	// Log in again and use the login token for the rest of the flow.
	req := jsonRequest(http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "pw1",
	}, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var login authResponse
	decodeBody(t, resp, &login)
	token := login.Token

	// No likes yet.
	req = jsonRequest(http.MethodGet, "/api/me/likes", nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var songs []models.Song
	decodeBody(t, resp, &songs)
	assert.Empty(t, songs)

	// Like song 1 twice; exactly one like row results.
	for i := 0; i < 2; i++ {
		req = jsonRequest(http.MethodPost, "/api/likes", map[string]uint{"songId": 1}, token)
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]interface{}
		decodeBody(t, resp, &body)
		assert.Equal(t, true, body["success"])
	}

	req = jsonRequest(http.MethodGet, "/api/me/likes", nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &songs)
	assert.Len(t, songs, 1)
	assert.Equal(t, uint(1), songs[0].ID)

	// Unliking a song never liked still succeeds.
	req = jsonRequest(http.MethodDelete, "/api/likes/2", nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Unlike song 1 twice; both succeed, zero likes remain.
	for i := 0; i < 2; i++ {
		req = jsonRequest(http.MethodDelete, "/api/likes/1", nil, token)
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	req = jsonRequest(http.MethodGet, "/api/me/likes", nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &songs)
	assert.Empty(t, songs)
}

func TestPlaylistFlow(t *testing.T) {
	app, _ := setupApp(t)
	token := registerUser(t, app, "a@x.com", "Alice", "pw1").Token

	// Name is required.
	req := jsonRequest(http.MethodPost, "/api/playlists", map[string]string{}, token)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Create a playlist.
	req = jsonRequest(http.MethodPost, "/api/playlists", map[string]string{"name": "Road Trip"}, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, resp, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Road Trip", created.Name)

	req = jsonRequest(http.MethodGet, "/api/me/playlists", nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	var playlists []models.Playlist
	decodeBody(t, resp, &playlists)
	assert.Len(t, playlists, 1)

	playlistPath := fmt.Sprintf("/api/playlists/%d", created.ID)

	var detail struct {
		models.Playlist
		Songs []models.Song `json:"songs"`
	}
	req = jsonRequest(http.MethodGet, playlistPath, nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.Equal(t, created.ID, detail.ID)
	assert.Empty(t, detail.Songs)

	// Add song 2 twice; membership stays a single row.
	for i := 0; i < 2; i++ {
		req = jsonRequest(http.MethodPost, playlistPath+"/songs", map[string]uint{"songId": 2}, token)
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	req = jsonRequest(http.MethodGet, playlistPath, nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &detail)
	assert.Len(t, detail.Songs, 1)
	assert.Equal(t, uint(2), detail.Songs[0].ID)

	// Remove twice; both succeed.
	for i := 0; i < 2; i++ {
		req = jsonRequest(http.MethodDelete, playlistPath+"/songs/2", nil, token)
		resp, err = app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	req = jsonRequest(http.MethodGet, playlistPath, nil, token)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	decodeBody(t, resp, &detail)
	assert.Empty(t, detail.Songs)
}

func TestPlaylistOwnership(t *testing.T) {
	app, _ := setupApp(t)
	alice := registerUser(t, app, "a@x.com", "Alice", "pw1").Token
	bob := registerUser(t, app, "b@x.com", "Bob", "pw2").Token

	req := jsonRequest(http.MethodPost, "/api/playlists", map[string]string{"name": "Private"}, alice)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var created struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &created)

	playlistPath := fmt.Sprintf("/api/playlists/%d", created.ID)

	// Another user's read, add, and remove all report the same 404 as a
	// non-existent playlist.
	req = jsonRequest(http.MethodGet, playlistPath, nil, bob)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req = jsonRequest(http.MethodPost, playlistPath+"/songs", map[string]uint{"songId": 1}, bob)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req = jsonRequest(http.MethodDelete, playlistPath+"/songs/1", nil, bob)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The owner is unaffected.
	req = jsonRequest(http.MethodGet, playlistPath, nil, alice)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProtectedRoutesRejectBadCredentials(t *testing.T) {
	app, _ := setupApp(t)

	// Missing header
	req := jsonRequest(http.MethodGet, "/api/me/likes", nil, "")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "No token provided", body["error"])

	// Header with no space at all
	req = httptest.NewRequest(http.MethodGet, "/api/me/likes", nil)
	req.Header.Set("Authorization", "garbagewithoutspace")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid token", body["error"])

	// Well-formed header carrying a bogus token
	req = jsonRequest(http.MethodGet, "/api/me/likes", nil, "not-a-real-token")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, "Invalid token", body["error"])
}
