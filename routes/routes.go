package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minitwit/handlers"
	"minitwit/monitoring"
)

// SetupAPIRoutes initializes the simulator-facing JSON API routes
func SetupAPIRoutes(userHandler *handlers.UserHandler, messageHandler *handlers.MessageHandler, systemHandler *handlers.SystemHandler) http.Handler {
	router := mux.NewRouter()

	// User routes
	router.HandleFunc("/register", userHandler.RegisterHandler).Methods("POST")
	router.HandleFunc("/fllws/{username}", userHandler.FollowHandler).Methods("GET", "POST")

	// Message routes
	router.HandleFunc("/msgs", messageHandler.GetMessages).Methods("GET")
	router.HandleFunc("/msgs/{username}", messageHandler.MessagesPerUser).Methods("GET", "POST")

	// System routes
	router.HandleFunc("/latest", systemHandler.GetLatest).Methods("GET")

	// Add metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return monitoring.InstrumentHandler(router)
}

// SetupWebRoutes initializes the server-rendered page routes. Fixed
// paths must come before the {username} catch-all.
func SetupWebRoutes(webHandler *handlers.WebHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", webHandler.Timeline).Methods("GET")
	router.HandleFunc("/public", webHandler.PublicTimeline).Methods("GET")
	router.HandleFunc("/add_message", webHandler.AddMessage).Methods("POST")
	router.HandleFunc("/login", webHandler.Login).Methods("GET", "POST")
	router.HandleFunc("/register", webHandler.Register).Methods("GET", "POST")
	router.HandleFunc("/logout", webHandler.Logout).Methods("GET")
	router.HandleFunc("/{username}", webHandler.UserTimeline).Methods("GET")
	router.HandleFunc("/{username}/follow", webHandler.FollowUser).Methods("GET")
	router.HandleFunc("/{username}/unfollow", webHandler.UnfollowUser).Methods("GET")

	return monitoring.InstrumentHandler(router)
}
