package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
)

type TournamentHandler struct {
	bracketService services.BracketService
}

func NewTournamentHandler(bs services.BracketService) *TournamentHandler {
	return &TournamentHandler{
		bracketService: bs,
	}
}

// GenerateBracket godoc
// @Summary Сгенерировать сетку турнира
// @Tags brackets
// @Description Seeds eligible players by ranking (or the given player_ids) and creates every match. The body is optional.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body services.GenerateBracketInput false "Players to seed"
// @Success 201 {object} map[string]interface{} "Сетка создана"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 403 {object} map[string]string "Нет прав"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Турнир не в статусе черновика"
// @Failure 422 {object} map[string]string "Ошибка посева"
// @Failure 503 {object} map[string]string "Турнир занят, повторите позже"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/bracket [post]
func (h *TournamentHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.GenerateBracketInput
	if err := readJSON(w, r, &input); err != nil && !errors.Is(err, errEmptyBody) {
		badRequestResponse(w, r, err)
		return
	}

	h.generate(w, r, tournamentID, input)
}

type manualSeedingRequest struct {
	SeededPlayers []models.SeedAssignment `json:"seeded_players"`
}

// ManualSeeding godoc
// @Summary Ручной посев и генерация сетки
// @Tags brackets
// @Description Every bracket position 1..N must be listed exactly once; a null player_id marks a bye.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param input body manualSeedingRequest true "Seed positions"
// @Success 201 {object} map[string]interface{} "Сетка создана"
// @Failure 400 {object} map[string]string "Некорректный запрос"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Турнир не в статусе черновика"
// @Failure 422 {object} map[string]string "Ошибка посева"
// @Failure 503 {object} map[string]string "Турнир занят, повторите позже"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/manual-seeding [post]
func (h *TournamentHandler) ManualSeeding(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req manualSeedingRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(req.SeededPlayers) == 0 {
		errorResponse(w, r, http.StatusUnprocessableEntity, "incomplete_seeding", "seeded_players must not be empty")
		return
	}

	h.generate(w, r, tournamentID, services.GenerateBracketInput{Seeding: req.SeededPlayers})
}

func (h *TournamentHandler) generate(w http.ResponseWriter, r *http.Request, tournamentID int, input services.GenerateBracketInput) {
	bracket, err := h.bracketService.GenerateBracket(r.Context(), tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetBracket godoc
// @Summary Получить сетку турнира
// @Tags brackets
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} map[string]interface{} "Сетка"
// @Failure 404 {object} map[string]string "Турнир или сетка не найдены"
// @Router /tournaments/{tournamentID}/bracket [get]
func (h *TournamentHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": bracket}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
