package handlers

import (
	"net/http"

	"github.com/openleague/league-system/middleware"
	"github.com/openleague/league-system/services"
)

type BracketHandler struct {
	bracketService   services.BracketService
	standingsService services.StandingsService
}

func NewBracketHandler(bracketService services.BracketService, standingsService services.StandingsService) *BracketHandler {
	return &BracketHandler{
		bracketService:   bracketService,
		standingsService: standingsService,
	}
}

func (h *BracketHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	bracket, err := h.bracketService.GenerateBracket(r.Context(), leagueID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil)
}

func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if bracket == nil {
		errorResponse(w, r, http.StatusNotFound, "bracket has not been generated for this league")
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil)
}

func (h *BracketHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.standingsService.GetStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
}
