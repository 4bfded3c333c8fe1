package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/openleague/league-system/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchConflict = errors.New("match conflict: match already exists for this league, round and number")
)

type MatchRepository interface {
	// CreateBatch inserts a generated bracket. It runs on the provided
	// executor so the whole batch commits or rolls back as one unit.
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error

	Get(ctx context.Context, leagueID, round, matchNumber int) (*models.Match, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error)
	CountByLeague(ctx context.Context, leagueID int) (int, error)
	UpdateResult(ctx context.Context, match *models.Match) error
	UpdatePlayers(ctx context.Context, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches (league_id, round, match_number, player1_id, player2_id,
		                     status, winner_id, player1_score, player2_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	for _, m := range matches {
		err := exec.QueryRowContext(ctx, query,
			m.LeagueID,
			m.Round,
			m.MatchNumber,
			m.Player1ID,
			m.Player2ID,
			m.Status,
			m.WinnerID,
			m.Player1Score,
			m.Player2Score,
		).Scan(&m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrMatchConflict
			}
			return fmt.Errorf("failed to insert match %s: %w", m.Key(), err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.Match) error {
	return rowScanner.Scan(
		&m.LeagueID,
		&m.Round,
		&m.MatchNumber,
		&m.Player1ID,
		&m.Player2ID,
		&m.Status,
		&m.WinnerID,
		&m.Player1Score,
		&m.Player2Score,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

const matchSelect = `
	SELECT league_id, round, match_number, player1_id, player2_id,
	       status, winner_id, player1_score, player2_score, created_at, updated_at
	FROM matches`

func (r *postgresMatchRepository) Get(ctx context.Context, leagueID, round, matchNumber int) (*models.Match, error) {
	query := matchSelect + ` WHERE league_id = $1 AND round = $2 AND match_number = $3`
	m := &models.Match{}
	err := r.scanMatch(r.db.QueryRowContext(ctx, query, leagueID, round, matchNumber), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error) {
	query := matchSelect + ` WHERE league_id = $1 ORDER BY round, match_number`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := r.scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountByLeague(ctx context.Context, leagueID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE league_id = $1`, leagueID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches for league %d: %w", leagueID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1, winner_id = $2, player1_score = $3, player2_score = $4, updated_at = NOW()
		WHERE league_id = $5 AND round = $6 AND match_number = $7`

	result, err := r.db.ExecContext(ctx, query,
		match.Status,
		match.WinnerID,
		match.Player1Score,
		match.Player2Score,
		match.LeagueID,
		match.Round,
		match.MatchNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update match result %s: %w", match.Key(), err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdatePlayers(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET player1_id = $1, player2_id = $2, updated_at = NOW()
		WHERE league_id = $3 AND round = $4 AND match_number = $5`

	result, err := r.db.ExecContext(ctx, query,
		match.Player1ID,
		match.Player2ID,
		match.LeagueID,
		match.Round,
		match.MatchNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to update match players %s: %w", match.Key(), err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
