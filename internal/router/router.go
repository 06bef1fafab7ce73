package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoaxify/hoaxify-api/internal/middleware"
	"github.com/hoaxify/hoaxify-api/internal/setup"
)

// New creates and configures the mux router with all the routes.
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedOrigins(deps.Config.Public.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Accept-Language"}),
	))
	r.Use(middleware.RequestLogging)
	r.Use(middleware.Metrics)
	// token auth is optional everywhere; handlers enforce it per route
	r.Use(deps.AuthMiddleware.TokenAuth)

	h := deps.Handler

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api/1.0").Subrouter()

	// hoaxes
	api.HandleFunc("/hoaxes/attachments", h.UploadAttachment).Methods("POST")
	api.HandleFunc("/hoaxes", h.CreateHoax).Methods("POST")
	api.Handle("/hoaxes", middleware.Pagination(http.HandlerFunc(h.ListHoaxes))).Methods("GET")
	api.Handle("/users/{userId}/hoaxes", middleware.Pagination(http.HandlerFunc(h.ListHoaxes))).Methods("GET")
	api.HandleFunc("/hoaxes/{id}", h.DeleteHoax).Methods("DELETE")

	// users
	api.HandleFunc("/users", h.Register).Methods("POST")
	api.HandleFunc("/users/token/{token}", h.Activate).Methods("POST")
	api.Handle("/users", middleware.Pagination(http.HandlerFunc(h.ListUsers))).Methods("GET")
	api.HandleFunc("/users/{id}", h.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", h.UpdateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")

	// auth and password reset
	api.HandleFunc("/auth", h.Login).Methods("POST")
	api.HandleFunc("/logout", h.Logout).Methods("POST")
	api.HandleFunc("/user/password", h.RequestPasswordReset).Methods("POST")
	api.HandleFunc("/user/password", h.ResetPassword).Methods("PUT")

	// stored files
	r.HandleFunc("/images/{filename}", h.ServeProfileImage).Methods("GET")
	r.HandleFunc("/attachments/{filename}", h.ServeAttachment).Methods("GET")

	return r
}
