// Package service contains the auth workflows. Everything multi-step lives
// here, the HTTP layer only maps outcomes to responses.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwise74/auth-api/internal/cache"
	"bitwise74/auth-api/internal/mailer"
	"bitwise74/auth-api/internal/model"
	"bitwise74/auth-api/internal/repository"
	"bitwise74/auth-api/pkg/security"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthConfig carries the values the workflows need beyond their
// collaborators
type AuthConfig struct {
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	Domain          string
	SSL             bool
}

type Auth struct {
	users  repository.Users
	cache  cache.VerificationCache
	mailer mailer.Mailer
	codec  *security.TokenCodec
	argon  *security.ArgonHash
	cfg    AuthConfig
}

func NewAuth(users repository.Users, c cache.VerificationCache, m mailer.Mailer, codec *security.TokenCodec, argon *security.ArgonHash, cfg AuthConfig) *Auth {
	return &Auth{
		users:  users,
		cache:  c,
		mailer: m,
		codec:  codec,
		argon:  argon,
		cfg:    cfg,
	}
}

// Register creates an unverified user and sends a verification mail. A
// duplicate email aborts before any side effect. A mail failure leaves the
// user row in place, the next login attempt triggers a resend.
func (a *Auth) Register(ctx context.Context, email, password, role string) error {
	hash, err := a.argon.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	id, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return fmt.Errorf("failed to generate user ID, %w", err)
	}

	err = a.users.Create(ctx, &model.User{
		ID:       id,
		Email:    email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrUserAlreadyExists
		}

		return err
	}

	return a.sendVerification(ctx, email)
}

// Verify consumes a verification token. Cache presence is the sole signal
// that the token is still outstanding, a signed but already consumed token
// is just as invalid as a forged one.
func (a *Auth) Verify(ctx context.Context, token string) error {
	email, err := a.codec.Subject(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return ErrExpiredToken
		}

		return ErrInvalidToken
	}

	if _, err := a.cache.Get(ctx, email); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return ErrInvalidToken
		}

		return err
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	// The durable flag commits before the cache cleanup. A crash in between
	// leaves a stale cache entry that the already-verified check above
	// short-circuits on the next attempt.
	if err := a.users.SetVerified(ctx, email); err != nil {
		return err
	}

	if err := a.cache.Delete(ctx, email); err != nil {
		zap.L().Warn("Failed to delete consumed verification token",
			zap.String("email", email), zap.Error(err))
	}

	return nil
}

// Login checks the credentials and returns an access/refresh token pair.
// An unknown email and a wrong password both come back as
// ErrInvalidCredentials so callers can't probe which accounts exist.
func (a *Auth) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := a.argon.Verify(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		// Resend only when the previous token already expired out of the
		// cache, so repeated login attempts don't flood the inbox
		if _, err := a.cache.Get(ctx, email); errors.Is(err, cache.ErrCacheMiss) {
			if err := a.sendVerification(ctx, email); err != nil {
				zap.L().Error("Failed to resend verification mail",
					zap.String("email", email), zap.Error(err))
			}
		}

		return nil, ErrUserNotVerified
	}

	accessToken, err := a.codec.Issue(email, a.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token, %w", err)
	}

	refreshToken, err := a.codec.Issue(email, a.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token, %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *Auth) sendVerification(ctx context.Context, email string) error {
	token, err := a.codec.Issue(email, a.cfg.VerificationTTL)
	if err != nil {
		return fmt.Errorf("failed to issue verification token, %w", err)
	}

	if err := a.cache.Set(ctx, email, token, a.cfg.VerificationTTL); err != nil {
		return fmt.Errorf("failed to cache verification token, %w", err)
	}

	scheme := "http"
	if a.cfg.SSL {
		scheme = "https"
	}

	body := fmt.Sprintf("To verify your email follow the link:\n%v://%v/auth/verify/%v\n\nThe link expires in %v",
		scheme, a.cfg.Domain, token, a.cfg.VerificationTTL)

	if err := a.mailer.Send("Email confirmation", body, email); err != nil {
		// Drop the cache entry so a later login attempt can resend instead
		// of waiting out the TTL of a mail nobody received
		if delErr := a.cache.Delete(ctx, email); delErr != nil {
			zap.L().Warn("Failed to drop verification token after mail failure",
				zap.String("email", email), zap.Error(delErr))
		}

		return fmt.Errorf("failed to send verification mail, %w", err)
	}

	return nil
}
