package app

import (
	httpMW "github.com/yungbote/leetcoach-backend/internal/http/middleware"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type Middleware struct {
	Auth       *httpMW.AuthMiddleware
	Regenerate *httpMW.UserRateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:       httpMW.NewAuthMiddleware(log, httpMW.NewTokenVerifier(cfg.JWTSecretKey)),
		Regenerate: httpMW.NewUserRateLimiter(cfg.RegenerateRate, cfg.RegenerateBurst),
	}
}
