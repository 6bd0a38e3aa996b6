package routes

import (
	"net/http"
	"time"

	"duet/handlers"
	"duet/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account and session endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", hb.Auth.RegisterUserHandler)
		auth.POST("/login", hb.Auth.AuthenticateUserHandler)
		auth.GET("/google/login", hb.Auth.GoogleLoginHandler)
		auth.GET("/google/callback", hb.Auth.GoogleCallbackHandler)

		auth.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		auth.GET("/me", hb.Auth.GetProfileHandler)
	}
}

// RegisterCoupleRoutes registers invitation and partner endpoints.
func RegisterCoupleRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	couples := api.Group("/couples")
	{
		couples.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		couples.POST("/invite", hb.Couples.CreateInvitationHandler)
		couples.POST("/accept", hb.Couples.AcceptInvitationHandler)
		couples.GET("/partner", hb.Couples.GetPartnerHandler)
	}
}

// RegisterDateRoutes registers date-plan generation endpoints.
func RegisterDateRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	dates := api.Group("/dates")
	{
		dates.POST("/generate-date-plan", hb.Dates.GeneratePlanHandler)

		dates.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		dates.POST("/generate-couple-date-plan", hb.Dates.GenerateCouplePlanHandler)
	}
}

// RegisterCalendarRoutes registers calendar connection and event endpoints.
func RegisterCalendarRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	cal := api.Group("/calendar")
	{
		cal.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		cal.GET("/connect", hb.Calendar.ConnectCalendarHandler)
		cal.POST("/connect", hb.Calendar.ConnectCalendarCallbackHandler)
		cal.GET("/free-slots", hb.Calendar.FreeSlotsHandler)
		cal.POST("/add-event", hb.Calendar.AddEventHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Duet"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	api := r.Group("/api/v1")
	RegisterAuthRoutes(api, hb)
	RegisterCoupleRoutes(api, hb)
	RegisterDateRoutes(api, hb)
	RegisterCalendarRoutes(api, hb)
	RegisterHealthRoute(r)
}
