package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-engine/events"
)

const archiveTimeout = 30 * time.Second

// BracketArchiver stores the final bracket of every finished tournament as JSON.
type BracketArchiver struct {
	uploader FileUploader
	logger   *slog.Logger
}

func NewBracketArchiver(uploader FileUploader, logger *slog.Logger) *BracketArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &BracketArchiver{uploader: uploader, logger: logger}
}

func ArchiveKey(tournamentID int) string {
	return fmt.Sprintf("brackets/tournament_%d.json", tournamentID)
}

// Publish ignores everything but tournament-finished events.
func (a *BracketArchiver) Publish(ctx context.Context, ev events.Event) {
	if ev.Type != events.TournamentFinished {
		return
	}
	payload, ok := ev.Payload.(events.TournamentFinishedPayload)
	if !ok || payload.Bracket == nil {
		a.logger.WarnContext(ctx, "tournament-finished event without bracket snapshot", slog.Int("tournament_id", ev.TournamentID))
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to marshal bracket archive", slog.Int("tournament_id", ev.TournamentID), slog.Any("error", err))
		return
	}

	uploadCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()

	res, err := a.uploader.Upload(uploadCtx, ArchiveKey(ev.TournamentID), "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to archive bracket", slog.Int("tournament_id", ev.TournamentID), slog.Any("error", err))
		return
	}
	a.logger.InfoContext(ctx, "bracket archived",
		slog.Int("tournament_id", ev.TournamentID), slog.String("location", res.Location), slog.String("etag", res.ETag))
}
