package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/config"
	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/internal/store"
	"github.com/jbccc/znote/internal/utils"
	"github.com/jbccc/znote/models"
)

// authService is the concrete implementation of [AuthService].
//
// Identity verification is delegated to the external OAuth verifier; the
// service only upserts accounts and manages the HMAC-signed bearer tokens
// gating every sync operation.
type authService struct {
	userRepository store.UserRepository
	verifier       adapter.GoogleVerifier

	// tokenSignKey is the HMAC secret used to sign and verify tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	tokenIssuer string

	// tokenDuration controls how long a freshly issued token stays valid.
	tokenDuration time.Duration

	// internalAuthKey is the bcrypt hash gating the internal sign-in
	// path. Empty disables the path entirely.
	internalAuthKey string

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repository
// and verifier, with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, verifier adapter.GoogleVerifier, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:  userRepository,
		verifier:        verifier,
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		tokenDuration:   cfg.TokenDuration,
		internalAuthKey: cfg.InternalAuthKey,
		logger:          logger,
	}
}

func (a *authService) SignInGoogle(ctx context.Context, req models.GoogleSignInRequest) (models.SignInResponse, error) {
	log := logger.FromContext(ctx)

	if req.IDToken == "" {
		return models.SignInResponse{}, ErrInvalidDataProvided
	}

	identity, err := a.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		log.Err(err).Msg("id token verification failed")
		return models.SignInResponse{}, fmt.Errorf("verify id token: %w", err)
	}

	return a.signIn(ctx, identity)
}

func (a *authService) SignInInternal(ctx context.Context, req models.InternalSignInRequest) (models.SignInResponse, error) {
	log := logger.FromContext(ctx)

	if a.internalAuthKey == "" {
		return models.SignInResponse{}, ErrInternalAuthDisabled
	}
	if req.ProviderID == "" {
		return models.SignInResponse{}, ErrInvalidDataProvided
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.internalAuthKey), []byte(req.AuthKey)); err != nil {
		log.Error().Str("provider_id", req.ProviderID).Msg("internal auth key mismatch")
		return models.SignInResponse{}, ErrWrongInternalKey
	}

	return a.signIn(ctx, req.Identity)
}

func (a *authService) signIn(ctx context.Context, identity models.Identity) (models.SignInResponse, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.UpsertByProvider(ctx, identity)
	if err != nil {
		log.Err(err).Str("provider_id", identity.ProviderID).Msg("user upsert ended with error")
		return models.SignInResponse{}, fmt.Errorf("user upsert ended with error: %w", err)
	}

	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.SignInResponse{}, err
	}

	return models.SignInResponse{Token: token.SignedString, User: user}, nil
}

func (a *authService) Me(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", userID, err)
	}

	return user, nil
}

func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("token generation failed")
		return models.Token{}, fmt.Errorf("token generation failed: %w", err)
	}

	return token, nil
}

func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		return models.Token{}, fmt.Errorf("parse token: %w", err)
	}

	return token, nil
}
