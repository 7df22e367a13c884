package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	f.types[key] = contentType
	return &UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return publicURL("https://cdn.example.com/archive", key)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBracketArchiver_UploadsFinishedBracket(t *testing.T) {
	up := newFakeUploader()
	a := NewBracketArchiver(up, quietLogger())

	payload := events.TournamentFinishedPayload{
		TournamentID: 12,
		ChampionID:   4,
		Awards:       []models.RankingAward{{TournamentID: 12, PlayerID: 4, FinishRound: 2, Points: 100}},
		Bracket:      &models.BracketSnapshot{Size: 2, TotalRounds: 1},
	}
	a.Publish(context.Background(), events.New(events.TournamentFinished, 12, payload))

	body, ok := up.objects["brackets/tournament_12.json"]
	require.True(t, ok)
	assert.Equal(t, "application/json", up.types["brackets/tournament_12.json"])

	var got events.TournamentFinishedPayload
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 4, got.ChampionID)
	require.NotNil(t, got.Bracket)
	assert.Equal(t, 2, got.Bracket.Size)
}

func TestBracketArchiver_IgnoresOtherEvents(t *testing.T) {
	up := newFakeUploader()
	a := NewBracketArchiver(up, quietLogger())

	a.Publish(context.Background(), events.New(events.MatchUpdated, 1, events.MatchUpdatedPayload{TournamentID: 1}))
	a.Publish(context.Background(), events.New(events.TournamentFinished, 1, events.TournamentFinishedPayload{TournamentID: 1}))
	assert.Empty(t, up.objects)

	up.err = errors.New("bucket unavailable")
	assert.NotPanics(t, func() {
		a.Publish(context.Background(), events.New(events.TournamentFinished, 1, events.TournamentFinishedPayload{
			TournamentID: 1, Bracket: &models.BracketSnapshot{},
		}))
	})
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/brackets/t.json", publicURL("https://cdn.example.com", "brackets/t.json"))
	assert.Equal(t, "https://cdn.example.com/base/brackets/t.json", publicURL("https://cdn.example.com/base/", "/brackets/t.json"))
	assert.Empty(t, publicURL("", "k"))
	assert.Empty(t, publicURL("https://cdn.example.com", ""))
}

func TestCloudflareR2UploaderConfig(t *testing.T) {
	var empty CloudflareR2UploaderConfig
	assert.False(t, empty.Enabled())

	partial := CloudflareR2UploaderConfig{BucketName: "brackets"}
	assert.True(t, partial.Enabled())
	assert.Error(t, partial.Validate())

	full := CloudflareR2UploaderConfig{AccountID: "a", AccessKeyID: "k", SecretAccessKey: "s", BucketName: "b", PublicBaseURL: "https://cdn"}
	assert.NoError(t, full.Validate())

	_, err := NewCloudflareR2Uploader(context.Background(), partial)
	assert.Error(t, err)
}
