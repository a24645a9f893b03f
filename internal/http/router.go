package httpx

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/Sadman95/bike-island-server/domain"
	"github.com/Sadman95/bike-island-server/internal/http/handlers"
	"github.com/Sadman95/bike-island-server/internal/http/middleware"
)

// APIPrefix is the root of every route
const APIPrefix = "/api/v2"

// Handlers groups the endpoint handlers mounted by BuildRouter
type Handlers struct {
	Auth   *handlers.AuthHandlers
	OTP    *handlers.OTPHandlers
	Admin  *handlers.AdminHandlers
	Policy *handlers.PolicyHandlers
	Health *handlers.HealthHandlers
}

// RouterOptions carries the cross-cutting middleware dependencies.
// A nil Limiter disables rate limiting.
type RouterOptions struct {
	Logger     *slog.Logger
	Production bool
	Limiter    domain.RateLimiter
}

func BuildRouter(h Handlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW, opts RouterOptions) *gin.Engine {
	handlers.RegisterValidation()

	r := gin.New()
	r.Use(
		middleware.CorrelationID(),
		middleware.Recovery(opts.Logger, opts.Production),
		middleware.RequestLogger(opts.Logger, APIPrefix+"/health"),
		middleware.ErrorHandler(opts.Logger, opts.Production),
	)
	r.NoRoute(middleware.NotFound())

	limited := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		if opts.Limiter == nil {
			return []gin.HandlerFunc{hf}
		}
		return []gin.HandlerFunc{middleware.RateLimit(opts.Limiter, opts.Logger), hf}
	}

	api := r.Group(APIPrefix)
	api.GET("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp)
	auth.POST("/login", limited(h.Auth.Login)...)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/google", h.Auth.GoogleLogin)
	auth.POST("/get-otp", limited(h.OTP.GetOTP)...)
	auth.POST("/verify-otp", jwtmw.Optional(), h.OTP.VerifyOTP)
	auth.POST("/forgot-password", limited(h.Auth.ForgotPassword)...)
	auth.POST("/reset-password", h.Auth.ResetPassword)

	private := auth.Group("/").Use(jwtmw.WithJWT())
	private.GET("/own-otp", h.OTP.OwnOTP)
	private.GET("/me", h.Auth.Me)
	private.POST("/logout", h.Auth.Logout)
	private.PATCH("/change-password", h.Auth.ChangePassword)

	adm := api.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/policies", h.Policy.List)
	adm.POST("/policies", h.Policy.Add)
	adm.DELETE("/policies", h.Policy.Remove)
	adm.PATCH("/users/:id/role", h.Admin.ChangeRole)

	return r
}
