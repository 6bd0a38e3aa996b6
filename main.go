package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duet/clients/claude"
	"duet/clients/places"
	"duet/clients/weather"
	"duet/config"
	"duet/cron"
	"duet/database"
	coupleRepoPkg "duet/database/repository/couple"
	invitationRepoPkg "duet/database/repository/invitation"
	userRepoPkg "duet/database/repository/user"
	"duet/handlers"
	"duet/routes"
	"duet/services/calendar"
	"duet/services/couples"
	"duet/services/dates"
	"duet/services/user"
	"duet/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	coupleRepo := coupleRepoPkg.NewMongoCoupleRepo()
	invitationRepo := invitationRepoPkg.NewMongoInvitationRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	couplesService := &couples.DefaultCouplesService{
		Couples:     coupleRepo,
		Invitations: invitationRepo,
		Users:       userRepo,
	}

	calendarService := &calendar.DefaultCalendarService{
		Source:   calendar.NewGoogleEventSource(userRepo),
		Cache:    utils.GetCacheClient(),
		CacheTTL: 5 * time.Minute,
	}

	dateService := &dates.DefaultDateGeneratorService{
		Claude:   claudeClient(),
		Places:   placesClient(),
		Weather:  weatherClient(),
		Calendar: calendarService,
		Couples:  coupleRepo,
	}

	handlerBundle := handlers.NewHandlerBundle(userRepo, userService, couplesService, dateService, calendarService)

	// Background sweep that expires stale invitations.
	cron.InitExpiryWorker(invitationRepo)

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// claudeClient picks the real or mock Anthropic client from config.
func claudeClient() claude.Client {
	if config.AppConfig.UseRealClaude && config.AppConfig.AnthropicAPIKey != "" {
		return claude.NewHTTPClient(config.AppConfig.AnthropicAPIKey)
	}
	return claude.NewMockClient()
}

func placesClient() places.Client {
	if config.AppConfig.UseRealPlaces && config.AppConfig.GooglePlacesKey != "" {
		return places.NewHTTPClient(config.AppConfig.GooglePlacesKey)
	}
	return places.NewMockClient()
}

func weatherClient() weather.Client {
	if config.AppConfig.UseRealWeather && config.AppConfig.OpenWeatherAPIKey != "" {
		return weather.NewHTTPClient(config.AppConfig.OpenWeatherAPIKey)
	}
	return weather.NewMockClient()
}
