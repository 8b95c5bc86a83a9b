package matching

import (
	"github.com/gorilla/mux"

	"github.com/peerlink/peerlink-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Ranking
	api.HandleFunc("/matches", handler.FindMatches).Methods("POST")
	api.HandleFunc("/compatibility/{userId:[0-9]+}", handler.GetCompatibility).Methods("GET")

	// Connection ledger
	api.HandleFunc("/connections", handler.RecordConnection).Methods("POST")
	api.HandleFunc("/connections/{userId:[0-9]+}/block", handler.BlockPeer).Methods("POST")
}
