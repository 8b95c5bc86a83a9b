// internal/matching/handlers.go

package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/peerlink/peerlink-backend/internal/auth"
	"github.com/peerlink/peerlink-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// FindMatches runs a ranking request for the authenticated seeker
func (h *Handler) FindMatches(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	filters := &MatchFilters{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(filters); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	result, err := h.service.FindMatches(r.Context(), seekerID, filters, filters.Limit)
	if err != nil {
		respondMatchError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// GetCompatibility scores the seeker against one specific member
func (h *Handler) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	vars := mux.Vars(r)
	targetID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := h.service.GetCompatibility(r.Context(), seekerID, targetID)
	if err != nil {
		respondMatchError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// RecordConnection writes an accepted/requested connection to the ledger
func (h *Handler) RecordConnection(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var dto RecordConnectionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	conn, err := h.service.RecordConnection(r.Context(), seekerID, &dto)
	if err != nil {
		respondMatchError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, conn)
}

// BlockPeer blocks a member from the seeker's future candidate pools
func (h *Handler) BlockPeer(w http.ResponseWriter, r *http.Request) {
	seekerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	vars := mux.Vars(r)
	peerID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.service.BlockPeer(r.Context(), seekerID, peerID); err != nil {
		respondMatchError(w, err)
		return
	}

	utils.MessageResponse(w, "Peer blocked", http.StatusOK)
}

func respondMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSeekerNotFound), errors.Is(err, ErrTargetNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidFilter), errors.Is(err, ErrCannotConnectSelf):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
