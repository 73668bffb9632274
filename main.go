package main

import (
	"net/http"
	"os"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"minitwit/database"
	"minitwit/handlers"
	"minitwit/logger"
	"minitwit/repositories"
	"minitwit/routes"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}
	logger.Init()

	db, err := database.Connect()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to migrate database")
	}

	userRepo := repositories.NewUserRepository(db)
	messageRepo := repositories.NewMessageRepository(db)

	store := sessions.NewCookieStore([]byte(envOr("SESSION_KEY", "development key")))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 16, // 16 hours
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	systemHandler := handlers.NewSystemHandler()
	userHandler := handlers.NewUserHandler(userRepo, systemHandler)
	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, systemHandler)
	webHandler := handlers.NewWebHandler(userRepo, messageRepo, store, "./templates")

	apiRouter := routes.SetupAPIRoutes(userHandler, messageHandler, systemHandler)
	webRouter := routes.SetupWebRoutes(webHandler)

	apiPort := envOr("API_PORT", "5001")
	webPort := envOr("PORT", "5000")

	// Web pages and the JSON API share one database but listen
	// separately, so route namespaces like /register never collide.
	errs := make(chan error, 2)
	go func() {
		logrus.WithField("port", apiPort).Info("API server listening")
		errs <- http.ListenAndServe(":"+apiPort, apiRouter)
	}()
	go func() {
		logrus.WithField("port", webPort).Info("Web server listening")
		errs <- http.ListenAndServe(":"+webPort, webRouter)
	}()
	logrus.Fatal(<-errs)
}
