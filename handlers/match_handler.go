package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-engine/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	completionService services.CompletionService
}

func NewMatchHandler(ms services.MatchService, cs services.CompletionService) *MatchHandler {
	return &MatchHandler{
		matchService:      ms,
		completionService: cs,
	}
}

// SubmitResult godoc
// @Summary Внести результат матча
// @Tags matches
// @Description Sets are applied in order until one side reaches the sets needed to win; later sets are ignored.
// @Accept json
// @Produce json
// @Param matchID path int true "Match ID"
// @Param input body services.SubmitResultInput true "Set scores"
// @Success 200 {object} map[string]interface{} "Результат сохранён"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 404 {object} map[string]string "Матч не найден"
// @Failure 409 {object} map[string]string "Матч завершён или не готов"
// @Failure 422 {object} map[string]string "Некорректный счёт"
// @Failure 503 {object} map[string]string "Турнир занят, повторите позже"
// @Security BearerAuth
// @Router /matches/{matchID}/result [put]
func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SubmitResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.matchService.SubmitMatchResult(r.Context(), matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CheckTournamentCompletion godoc
// @Summary Проверить завершение турнира
// @Tags matches
// @Description Finishes the tournament if the final is decided. Repeated calls return the stored outcome.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Состояние турнира"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 503 {object} map[string]string "Турнир занят, повторите позже"
// @Security BearerAuth
// @Router /matches/check-tournament-completion/{tournamentID} [post]
func (h *MatchHandler) CheckTournamentCompletion(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	completion, err := h.completionService.CheckCompletion(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"completion": completion}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
