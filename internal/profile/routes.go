package profile

import (
	"github.com/gorilla/mux"

	"github.com/peerlink/peerlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/profiles").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/me", handler.GetMyProfile).Methods("GET")
	api.HandleFunc("/me", handler.UpsertMyProfile).Methods("PUT")
	api.HandleFunc("/{userId:[0-9]+}", handler.GetProfile).Methods("GET")
}
