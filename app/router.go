// Package app wires the configuration, collaborators and routes into a
// runnable gin engine
package app

import (
	"fmt"
	"time"

	"bitwise74/auth-api/app/auth"
	"bitwise74/auth-api/app/root"
	"bitwise74/auth-api/db"
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/internal/cache"
	"bitwise74/auth-api/internal/mailer"
	"bitwise74/auth-api/internal/repository"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/pkg/middleware"
	"bitwise74/auth-api/pkg/security"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	d.DB = conn
	d.Users = repository.NewGormUsers(conn)

	redisAddr := fmt.Sprintf("%v:%v", viper.GetString("redis.host"), viper.GetInt("redis.port"))

	c, err := cache.NewRedis(redisAddr, viper.GetInt("redis.db"))
	if err != nil {
		return nil, err
	}
	d.Cache = c

	if viper.GetBool("mail.enabled") {
		m, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:     viper.GetString("mail.host"),
			Port:     viper.GetInt("mail.port"),
			Username: viper.GetString("mail.username"),
			Password: viper.GetString("mail.password"),
			From:     viper.GetString("mail.from"),
		})
		if err != nil {
			return nil, err
		}
		d.Mailer = m
	} else {
		d.Mailer = mailer.Noop{}
	}

	codec := security.NewTokenCodec(viper.GetString("jwt.secret"), viper.GetString("jwt.algorithm"))

	d.Auth = service.NewAuth(d.Users, d.Cache, d.Mailer, codec, security.NewArgon(), service.AuthConfig{
		AccessTTL:       time.Duration(viper.GetInt("jwt.access_ttl_minutes")) * time.Minute,
		RefreshTTL:      time.Duration(viper.GetInt("jwt.refresh_ttl_minutes")) * time.Minute,
		VerificationTTL: time.Duration(viper.GetInt("jwt.verification_ttl_minutes")) * time.Minute,
		Domain:          viper.GetString("host.domain"),
		SSL:             viper.GetBool("host.ssl.enabled"),
	})

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	a := router.Group("/auth", rateLimiter, middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/register		-> Registers a new user and sends a verification mail
		a.POST("/register", func(c *gin.Context) { auth.Register(c, d) })

		// GET /auth/verify/:token	-> Consumes a verification token
		a.GET("/verify/:token", func(c *gin.Context) { auth.Verify(c, d) })

		// POST /auth/login		-> Logs in a user and returns an access/refresh token pair
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })
	}

	return router, nil
}

func makeLogger() {
	var level zapcore.Level
	if err := level.Set(viper.GetString("app.log_level")); err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
