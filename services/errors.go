package services

import (
	"errors"

	"github.com/Dosada05/bracket-engine/repositories"
)

// Ошибки, общие для сервисов и маппинга HTTP.
var (
	// Не найдено
	ErrTournamentNotFound = repositories.ErrTournamentNotFound
	ErrMatchNotFound      = repositories.ErrMatchNotFound
	ErrBracketNotFound    = errors.New("bracket has not been generated for this tournament")

	// Конфликты состояния
	ErrBracketAlreadyExists    = repositories.ErrBracketAlreadyExists
	ErrTournamentNotDraft      = errors.New("bracket can only be generated while the tournament is a draft")
	ErrTournamentNotInProgress = errors.New("tournament is not in progress")

	// Временные
	ErrTournamentBusy = errors.New("tournament is being updated by another request")
)
