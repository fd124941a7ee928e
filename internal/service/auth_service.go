package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "focustimer/internal/errors"
)

const minPassphraseLength = 6

// AuthService guards the local API with a single owner passphrase. The
// bcrypt hash lives in the key-value store; sessions are HS256 JWTs.
type AuthService struct {
	store     KeyValueStore
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

type ownerCredentials struct {
	OwnerID      string    `json:"ownerId"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	OwnerID   string    `json:"ownerId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewAuthService(store KeyValueStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Setup stores the owner passphrase. It can only run once.
func (s *AuthService) Setup(ctx context.Context, passphrase string) (*AuthResult, *apperrors.APIError) {
	if len(passphrase) < minPassphraseLength {
		return nil, apperrors.BadRequest("invalid_passphrase", "passphrase must be at least 6 characters")
	}

	var existing ownerCredentials
	found, err := readJSON(ctx, s.store, KeyAuthCredentials, &existing)
	if err != nil {
		return nil, apperrors.Internal("failed to read credentials")
	}
	if found {
		return nil, apperrors.Conflict(apperrors.CodeAlreadyConfigured, "owner passphrase already set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("failed to secure passphrase")
	}

	creds := ownerCredentials{
		OwnerID:      uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := writeJSON(ctx, s.store, KeyAuthCredentials, creds); err != nil {
		return nil, apperrors.FromError(err, "failed to store credentials")
	}

	return s.issueToken(creds.OwnerID)
}

func (s *AuthService) Login(ctx context.Context, passphrase string) (*AuthResult, *apperrors.APIError) {
	if passphrase == "" {
		return nil, apperrors.BadRequest("invalid_credentials", "passphrase is required")
	}

	var creds ownerCredentials
	found, err := readJSON(ctx, s.store, KeyAuthCredentials, &creds)
	if err != nil {
		return nil, apperrors.Internal("failed to read credentials")
	}
	if !found {
		return nil, apperrors.Unauthorized("owner passphrase not set up")
	}

	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(passphrase)) != nil {
		return nil, apperrors.Unauthorized("invalid passphrase")
	}

	return s.issueToken(creds.OwnerID)
}

func (s *AuthService) ParseToken(tokenString string) (string, *apperrors.APIError) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", apperrors.Unauthorized("invalid token")
	}

	if claims.Subject == "" {
		return "", apperrors.Unauthorized("invalid token subject")
	}

	return claims.Subject, nil
}

func (s *AuthService) issueToken(ownerID string) (*AuthResult, *apperrors.APIError) {
	now := s.now().UTC()
	expires := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token")
	}
	return &AuthResult{Token: signed, OwnerID: ownerID, ExpiresAt: expires}, nil
}
