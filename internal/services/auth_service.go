package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tunestream/internal/models"
	"tunestream/internal/repositories"
	"tunestream/pkg/events"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials covers both unknown email and wrong
	// password; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is the single outcome for every token failure:
	// malformed, tampered, expired, or signed with the wrong key.
	ErrInvalidToken = errors.New("invalid token")
)

// hashCost is the bcrypt work factor. 10 keeps login latency tolerable
// while staying expensive enough to resist offline brute force.
const hashCost = 10

// TokenClaims is the identity embedded in a session token.
type TokenClaims struct {
	UserID uint
	Email  string
}

// AuthService handles registration, login, and session token handling.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	mqClient  *events.Client // nil disables event publishing
}

// NewAuthService creates a new AuthService. The signing key is fixed at
// construction; every instance sharing the user store must be given the
// same key so tokens verify across instances.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, mqClient *events.Client) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  7 * 24 * time.Hour,
		mqClient:  mqClient,
	}
}

// Register creates a user with a bcrypt-hashed password and mints a
// session token. When name is empty it defaults to the email's local
// part. The plaintext password is never stored or returned.
func (s *AuthService) Register(email, name, password string) (*models.User, string, error) {
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		// The unique index catches races the pre-check missed.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.publishEvent("user.registered", map[string]interface{}{
		"userId": user.ID,
		"email":  user.Email,
	})

	return user, token, nil
}

// Login authenticates a user and mints a fresh session token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// issueToken signs an HS256 token carrying the user's identity, valid
// for tokenTTL from now.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
		"jti":     uuid.New().String(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the embedded
// identity. Every failure collapses into ErrInvalidToken so callers
// cannot learn why verification failed.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	// Numeric JSON claims come back as float64.
	userID, okID := claims["user_id"].(float64)
	email, okEmail := claims["email"].(string)
	if !okID || !okEmail {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID: uint(userID),
		Email:  email,
	}, nil
}

// publishEvent sends an activity event when a broker is configured.
// Publish failures are logged, never surfaced to the request.
func (s *AuthService) publishEvent(eventType string, payload map[string]interface{}) {
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
