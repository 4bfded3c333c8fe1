package handlers

import (
	"net/http"

	"github.com/openleague/league-system/middleware"
	"github.com/openleague/league-system/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) ListLeagueMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, err := urlParamInt(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.matchService.ListByLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}

func (h *MatchHandler) matchParams(r *http.Request) (leagueID, round, matchNumber int, err error) {
	if leagueID, err = urlParamInt(r, "leagueID"); err != nil {
		return
	}
	if round, err = urlParamInt(r, "round"); err != nil {
		return
	}
	matchNumber, err = urlParamInt(r, "matchNumber")
	return
}

func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	leagueID, round, matchNumber, err := h.matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitResult(r.Context(), leagueID, round, matchNumber, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) AssignPlayers(w http.ResponseWriter, r *http.Request) {
	leagueID, round, matchNumber, err := h.matchParams(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.AssignPlayersInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AssignPlayers(r.Context(), leagueID, round, matchNumber, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	_ = writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}
