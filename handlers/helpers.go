package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

var errEmptyBody = errors.New("body must not be empty")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// Error codes returned next to the message so clients can branch without parsing text.
const (
	codeBadRequest    = "bad_request"
	codeInternalError = "internal_error"
)

func errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message interface{}) {
	errorResponseWithHeaders(w, r, status, code, message, nil)
}

func errorResponseWithHeaders(w http.ResponseWriter, r *http.Request, status int, code string, message interface{}, headers http.Header) {
	env := jsonResponse{"error": message, "code": code}
	if err := writeJSON(w, status, env, headers); err != nil {
		slog.ErrorContext(r.Context(), "Error writing error JSON response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Internal server error",
		slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, codeInternalError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, codeBadRequest, err.Error())
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	// 404
	{services.ErrTournamentNotFound, http.StatusNotFound, "tournament_not_found"},
	{services.ErrMatchNotFound, http.StatusNotFound, "match_not_found"},
	{services.ErrBracketNotFound, http.StatusNotFound, "bracket_not_found"},

	// 409: состояние изменилось, клиент должен обновить данные
	{services.ErrBracketAlreadyExists, http.StatusConflict, "bracket_already_exists"},
	{services.ErrTournamentNotDraft, http.StatusConflict, "tournament_not_draft"},
	{services.ErrTournamentNotInProgress, http.StatusConflict, "tournament_not_in_progress"},
	{brackets.ErrMatchAlreadyFinished, http.StatusConflict, "match_already_finished"},
	{brackets.ErrMatchNotReady, http.StatusConflict, "match_not_ready"},

	// 422: исправить ввод и повторить
	{brackets.ErrNoPlayers, http.StatusUnprocessableEntity, "no_players"},
	{brackets.ErrTooManyPlayers, http.StatusUnprocessableEntity, "too_many_players"},
	{brackets.ErrDuplicatePlayer, http.StatusUnprocessableEntity, "duplicate_player"},
	{brackets.ErrIncompleteSeeding, http.StatusUnprocessableEntity, "incomplete_seeding"},
	{brackets.ErrInvalidSeedPosition, http.StatusUnprocessableEntity, "invalid_seed_position"},
	{brackets.ErrUnknownPlayer, http.StatusUnprocessableEntity, "unknown_player"},
	{brackets.ErrNoSets, http.StatusUnprocessableEntity, "no_sets"},
	{brackets.ErrTiedSetScore, http.StatusUnprocessableEntity, "tied_set_score"},
	{brackets.ErrNegativeScore, http.StatusUnprocessableEntity, "negative_score"},
	{brackets.ErrWinnerMismatch, http.StatusUnprocessableEntity, "winner_mismatch"},
	{brackets.ErrUnsupportedBracketType, http.StatusUnprocessableEntity, "unsupported_bracket_type"},
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrTournamentBusy) {
		errorResponseWithHeaders(w, r, http.StatusServiceUnavailable, "tournament_busy", err.Error(),
			http.Header{"Retry-After": []string{"1"}})
		return
	}
	if errors.Is(err, brackets.ErrBracketCorruption) {
		slog.ErrorContext(r.Context(), "Bracket corruption detected",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
		errorResponse(w, r, http.StatusInternalServerError, "bracket_corruption", "bracket data is inconsistent, contact an administrator")
		return
	}
	if errors.Is(err, brackets.ErrInvalidBracketSize) {
		slog.ErrorContext(r.Context(), "Tournament bracket misconfigured",
			slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("error", err))
		errorResponse(w, r, http.StatusInternalServerError, "bracket_misconfigured", "tournament bracket settings are invalid, contact an administrator")
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			errorResponse(w, r, m.status, m.code, err.Error())
			return
		}
	}
	serverErrorResponse(w, r, err)
}
