package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campaign-auth/internal/service"
	"campaign-auth/internal/upload"
)

// NewRouter configura el router de Gin con middlewares y rutas. uploadsDir es
// el directorio servido bajo /uploads; vacío desactiva la ruta.
func NewRouter(
	logger *zap.Logger,
	authH *AuthHandler,
	adminH *AdminHandler,
	tokens *service.TokenService,
	ipLimiter service.RateLimiter,
	uploadsDir string,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, "API is running", gin.H{"status": "ok"})
	})

	if uploadsDir != "" {
		r.Static(upload.PublicPrefix, uploadsDir)
	}

	auth := r.Group("/auth")
	auth.Use(RateLimit(ipLimiter))
	auth.POST("/register", authH.Register)
	auth.POST("/verify-otp", authH.VerifyOTP)
	auth.POST("/resend-otp", authH.ResendOTP)
	auth.POST("/login", authH.Login)
	auth.POST("/admin/login", authH.LoginAdmin)

	admin := r.Group("/admin")
	admin.Use(Authenticate(tokens), RequireRole(service.RoleAdmin))
	admin.GET("/dashboard", adminH.Dashboard)
	admin.GET("/users/pending", adminH.PendingUsers)
	admin.GET("/users", adminH.AllUsers)
	admin.PUT("/users/:id/approve", adminH.ApproveUser)
	admin.PUT("/users/:id/reject", adminH.RejectUser)
	admin.GET("/admins", adminH.ListAdmins)
	admin.POST("/admins", adminH.CreateAdmin)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses,
// salvo en los documentos servidos bajo /uploads.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, upload.PublicPrefix+"/") {
			c.Writer.Header().Set("Content-Type", "application/json")
		}
		c.Next()
	}
}
