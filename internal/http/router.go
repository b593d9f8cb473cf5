package http

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine with recovery, request logging and CORS in front of h.
func NewRouter(h *Handler, logger *zap.Logger, environment string, allowedOrigins []string) (*gin.Engine, error) {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cors config: %w", err)
	}

	r := gin.New()
	r.Use(
		ginzap.CustomRecoveryWithZap(logger, true, func(c *gin.Context, _ any) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("internal error"))
		}),
		ginzap.GinzapWithConfig(logger, &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			SkipPaths:  []string{"/healthz"},
		}),
		cors.New(corsCfg),
	)
	h.Register(r)
	return r, nil
}
