package internal

import (
	"bitwise74/auth-api/internal/cache"
	"bitwise74/auth-api/internal/mailer"
	"bitwise74/auth-api/internal/repository"
	"bitwise74/auth-api/internal/service"

	"gorm.io/gorm"
)

// Deps is the explicit dependency container handed to every handler. No
// globals beyond the zap logger.
type Deps struct {
	DB     *gorm.DB
	Users  repository.Users
	Cache  cache.VerificationCache
	Mailer mailer.Mailer
	Auth   *service.Auth
}
