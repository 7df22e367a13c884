package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/bracket-engine/events"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

// memStore is an in-memory stand-in for the database. Transactions are serialized
// and rolled back by restoring a snapshot taken when they began.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	tournaments map[int]models.Tournament
	players     map[int]models.Player
	matches     map[int]models.Match
	sets        map[int]models.Set
	awards      map[int]models.RankingAward
	nextID      int

	failAwardInsert error
}

type memSnapshot struct {
	tournaments map[int]models.Tournament
	matches     map[int]models.Match
	sets        map[int]models.Set
	awards      map[int]models.RankingAward
	nextID      int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: make(map[int]models.Tournament),
		players:     make(map[int]models.Player),
		matches:     make(map[int]models.Match),
		sets:        make(map[int]models.Set),
		awards:      make(map[int]models.RankingAward),
		nextID:      1000,
	}
}

func copyMap[V any](src map[int]V) map[int]V {
	dst := make(map[int]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return memSnapshot{
		tournaments: copyMap(s.tournaments),
		matches:     copyMap(s.matches),
		sets:        copyMap(s.sets),
		awards:      copyMap(s.awards),
		nextID:      s.nextID,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments = snap.tournaments
	s.matches = snap.matches
	s.sets = snap.sets
	s.awards = snap.awards
	s.nextID = snap.nextID
}

func (s *memStore) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	snap := s.snapshot()
	if err := fn(nil); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) addTournament(t models.Tournament) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	if t.Type == "" {
		t.Type = models.TypeElimination
	}
	if t.Status == "" {
		t.Status = models.StatusDraft
	}
	if t.SetsPerMatch == 0 {
		t.SetsPerMatch = 3
	}
	s.tournaments[t.ID] = t
	return t
}

func (s *memStore) addPlayer(id int, ranking *int, role models.PlayerRole) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[id] = models.Player{ID: id, Name: "player", Ranking: ranking, Role: role}
}

func (s *memStore) tournament(id int) models.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tournaments[id]
}

func (s *memStore) counts() (matches, sets, awards int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches), len(s.sets), len(s.awards)
}

// --- repositories ---

type memTournaments struct{ *memStore }

func (r memTournaments) GetByID(ctx context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r memTournaments) GetForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memTournaments) UpdateStatus(ctx context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.tournaments[id] = t
	return nil
}

func (r memTournaments) MarkFinished(ctx context.Context, _ repositories.SQLExecutor, id int, championID int, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = models.StatusFinished
	t.ChampionID = &championID
	t.FinishedAt = &finishedAt
	r.tournaments[id] = t
	return nil
}

func (r memTournaments) ListIDsByStatus(ctx context.Context, status models.TournamentStatus) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []int{}
	for id, t := range r.tournaments {
		if t.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

type memPlayers struct{ *memStore }

func (r memPlayers) ListByIDs(ctx context.Context, ids []int) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Player{}
	seen := map[int]bool{}
	for _, id := range ids {
		if p, ok := r.players[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPlayers) ListByRole(ctx context.Context, role models.PlayerRole) ([]*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Player{}
	for _, p := range r.players {
		if p.Role == role {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memMatches struct{ *memStore }

func (r memMatches) Create(ctx context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.matches {
		if existing.TournamentID == m.TournamentID && existing.Round == m.Round && existing.Slot == m.Slot {
			return repositories.ErrBracketAlreadyExists
		}
	}
	m.ID = r.id()
	stored := *m
	stored.Sets = nil
	r.matches[m.ID] = stored
	return nil
}

func (r memMatches) Update(ctx context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[m.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	stored := *m
	stored.Sets = nil
	r.matches[m.ID] = stored
	return nil
}

func (r memMatches) GetTournamentID(ctx context.Context, matchID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return 0, repositories.ErrMatchNotFound
	}
	return m.TournamentID, nil
}

func (r memMatches) ListByTournament(ctx context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Match{}
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (s *memStore) match(tournamentID, round, slot int) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		if m.TournamentID == tournamentID && m.Round == round && m.Slot == slot {
			return m
		}
	}
	return models.Match{}
}

type memSets struct{ *memStore }

func (r memSets) Create(ctx context.Context, _ repositories.SQLExecutor, set *models.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sets {
		if existing.MatchID == set.MatchID && existing.Number == set.Number {
			return repositories.ErrSetConflict
		}
	}
	set.ID = r.id()
	r.sets[set.ID] = *set
	return nil
}

func (r memSets) ListByTournament(ctx context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Set{}
	for _, s := range r.sets {
		if m, ok := r.matches[s.MatchID]; ok && m.TournamentID == tournamentID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

type memAwards struct{ *memStore }

func (r memAwards) BatchCreate(ctx context.Context, _ repositories.SQLExecutor, awards []models.RankingAward) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAwardInsert != nil {
		return r.failAwardInsert
	}
	for i := range awards {
		for _, existing := range r.awards {
			if existing.TournamentID == awards[i].TournamentID && existing.PlayerID == awards[i].PlayerID {
				return repositories.ErrAwardsAlreadyExist
			}
		}
		awards[i].ID = r.id()
		r.awards[awards[i].ID] = awards[i]
	}
	return nil
}

func (r memAwards) ListByTournament(ctx context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.RankingAward, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.RankingAward{}
	for _, a := range r.awards {
		if a.TournamentID == tournamentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinishRound != out[j].FinishRound {
			return out[i].FinishRound > out[j].FinishRound
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// --- events ---

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) count(t events.Type) int {
	n := 0
	for _, got := range r.types() {
		if got == t {
			n++
		}
	}
	return n
}

type fixture struct {
	store      *memStore
	events     *recorder
	logs       *bytes.Buffer
	locker     *TournamentLocker
	brackets   BracketService
	matches    MatchService
	completion CompletionService
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	store := newMemStore()
	rec := &recorder{}
	logs := &bytes.Buffer{}
	locker := NewTournamentLocker(200 * time.Millisecond)
	deps := Deps{
		Tx:          store,
		Tournaments: memTournaments{store},
		Players:     memPlayers{store},
		Matches:     memMatches{store},
		Sets:        memSets{store},
		Awards:      memAwards{store},
		Locker:      locker,
		Publisher:   rec,
		Logger:      slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Now:         func() time.Time { return fixedNow },
	}
	return &fixture{
		store:      store,
		events:     rec,
		logs:       logs,
		locker:     locker,
		brackets:   NewBracketService(deps),
		matches:    NewMatchService(deps),
		completion: NewCompletionService(deps),
	}
}

func intPtr(v int) *int { return &v }

// seedPlayers registers Jugador players with the given IDs, ranked in argument order.
func (f *fixture) seedPlayers(ids ...int) {
	for i, id := range ids {
		f.store.addPlayer(id, intPtr(i+1), models.RolePlayer)
	}
}

var errInjected = errors.New("injected failure")
