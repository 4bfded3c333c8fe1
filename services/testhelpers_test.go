package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/openleague/league-system/models"
	"github.com/openleague/league-system/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

// fakeLeagueRepo is an in-memory LeagueRepository.
type fakeLeagueRepo struct {
	mu      sync.Mutex
	nextID  int
	leagues map[int]*models.League
}

func newFakeLeagueRepo() *fakeLeagueRepo {
	return &fakeLeagueRepo{nextID: 1, leagues: make(map[int]*models.League)}
}

func (r *fakeLeagueRepo) Create(_ context.Context, league *models.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	league.ID = r.nextID
	r.nextID++
	clone := *league
	r.leagues[league.ID] = &clone
	return nil
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[id]
	if !ok {
		return nil, repositories.ErrLeagueNotFound
	}
	clone := *league
	return &clone, nil
}

func (r *fakeLeagueRepo) ListByUser(_ context.Context, userID int) ([]*models.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.League
	for _, league := range r.leagues {
		if league.OwnerID == userID {
			clone := *league
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeLeagueRepo) UpdateFormat(_ context.Context, id int, format models.TournamentFormat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	league.TournamentFormat = format
	return nil
}

func (r *fakeLeagueRepo) UpdateLogoURL(_ context.Context, id int, logoURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	league.LogoURL = &logoURL
	return nil
}

func (r *fakeLeagueRepo) MarkBracketGenerated(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	league, ok := r.leagues[id]
	if !ok {
		return repositories.ErrLeagueNotFound
	}
	if league.BracketGenerated {
		return repositories.ErrLeagueBracketFlagSet
	}
	league.BracketGenerated = true
	return nil
}

// fakeMemberRepo is an in-memory MemberRepository.
type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[string]*models.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*models.Member)}
}

func memberKey(leagueID, userID int) string {
	return fmt.Sprintf("%d/%d", leagueID, userID)
}

func (r *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memberKey(member.LeagueID, member.UserID)
	if _, ok := r.members[key]; ok {
		return repositories.ErrMemberConflict
	}
	clone := *member
	r.members[key] = &clone
	return nil
}

func (r *fakeMemberRepo) Get(_ context.Context, leagueID, userID int) (*models.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberKey(leagueID, userID)]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	clone := *member
	return &clone, nil
}

func (r *fakeMemberRepo) ListByLeague(_ context.Context, leagueID int) ([]*models.Member, error) {
	return r.list(leagueID, false), nil
}

func (r *fakeMemberRepo) ListActiveByLeague(_ context.Context, leagueID int) ([]*models.Member, error) {
	return r.list(leagueID, true), nil
}

func (r *fakeMemberRepo) list(leagueID int, activeOnly bool) []*models.Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Member
	for _, member := range r.members {
		if member.LeagueID != leagueID {
			continue
		}
		if activeOnly && member.Status != models.MemberStatusActive {
			continue
		}
		clone := *member
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (r *fakeMemberRepo) UpdateStatus(_ context.Context, leagueID, userID int, status models.MemberStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberKey(leagueID, userID)]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	member.Status = status
	return nil
}

func (r *fakeMemberRepo) UpdateRole(_ context.Context, leagueID, userID int, role models.MemberRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberKey(leagueID, userID)]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	member.Role = role
	return nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, leagueID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memberKey(leagueID, userID)
	if _, ok := r.members[key]; !ok {
		return repositories.ErrMemberNotFound
	}
	delete(r.members, key)
	return nil
}

// fakeMatchRepo is an in-memory MatchRepository keyed by the natural
// (league, round, match) tuple.
type fakeMatchRepo struct {
	mu      sync.Mutex
	matches map[string]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{matches: make(map[string]*models.Match)}
}

func (r *fakeMatchRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []*models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, match := range matches {
		if _, ok := r.matches[match.Key()]; ok {
			return repositories.ErrMatchConflict
		}
	}
	for _, match := range matches {
		clone := *match
		r.matches[match.Key()] = &clone
	}
	return nil
}

func (r *fakeMatchRepo) Get(_ context.Context, leagueID, round, matchNumber int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%d_r%d_m%d", leagueID, round, matchNumber)
	match, ok := r.matches[key]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *match
	return &clone, nil
}

func (r *fakeMatchRepo) ListByLeague(_ context.Context, leagueID int) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Match
	for _, match := range r.matches {
		if match.LeagueID == leagueID {
			clone := *match
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out, nil
}

func (r *fakeMatchRepo) CountByLeague(_ context.Context, leagueID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, match := range r.matches {
		if match.LeagueID == leagueID {
			count++
		}
	}
	return count, nil
}

func (r *fakeMatchRepo) UpdateResult(_ context.Context, match *models.Match) error {
	return r.replace(match)
}

func (r *fakeMatchRepo) UpdatePlayers(_ context.Context, match *models.Match) error {
	return r.replace(match)
}

func (r *fakeMatchRepo) replace(match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.Key()]; !ok {
		return repositories.ErrMatchNotFound
	}
	clone := *match
	r.matches[match.Key()] = &clone
	return nil
}

// fakeBracketWriter persists through the in-memory repos, applying the same
// flag-then-insert ordering as the real transaction. A non-nil forcedErr is
// returned without touching state.
type fakeBracketWriter struct {
	leagueRepo *fakeLeagueRepo
	matchRepo  *fakeMatchRepo
	forcedErr  error
	saveCalls  int
}

func (w *fakeBracketWriter) SaveBracket(ctx context.Context, leagueID int, matches []*models.Match) error {
	w.saveCalls++
	if w.forcedErr != nil {
		return w.forcedErr
	}
	if err := w.leagueRepo.MarkBracketGenerated(ctx, nil, leagueID); err != nil {
		return err
	}
	return w.matchRepo.CreateBatch(ctx, nil, matches)
}

// spyBracketCache records cache traffic and optionally serves a canned
// bracket or errors.
type spyBracketCache struct {
	stored      *models.Bracket
	getErr      error
	setErr      error
	sets        int
	invalidates int
}

func (c *spyBracketCache) Get(_ context.Context, leagueID int) (*models.Bracket, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if c.stored != nil && c.stored.LeagueID == leagueID {
		return c.stored, nil
	}
	return nil, nil
}

func (c *spyBracketCache) Set(_ context.Context, bracket *models.Bracket) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.stored = bracket
	return nil
}

func (c *spyBracketCache) Invalidate(_ context.Context, leagueID int) error {
	c.invalidates++
	if c.stored != nil && c.stored.LeagueID == leagueID {
		c.stored = nil
	}
	return nil
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}
