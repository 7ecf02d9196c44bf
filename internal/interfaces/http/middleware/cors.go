package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/config"
)

// CORS builds the gin-contrib/cors handler from HTTP settings. An empty
// origin list or "*" allows every origin without credentials.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	if len(cfg.CORSAllowOrigins) == 0 || containsWildcard(cfg.CORSAllowOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
		corsConfig.AllowCredentials = true
	}
	if len(cfg.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORSAllowMethods
	}
	corsConfig.AddAllowHeaders(cfg.CORSAllowHeaders...)
	corsConfig.AddAllowHeaders("Authorization", RequestIDHeader, IdempotencyKeyHeader, ActorIDHeader)
	corsConfig.AddExposeHeaders(RequestIDHeader)
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
