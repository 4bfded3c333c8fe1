package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openleague/league-system/models"
)

var (
	ErrLeagueNotFound = errors.New("league not found")

	// ErrLeagueBracketFlagSet signals that the compare-and-set on the
	// bracket_generated flag lost to an earlier generation.
	ErrLeagueBracketFlagSet = errors.New("league bracket is already marked as generated")
)

type LeagueRepository interface {
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id int) (*models.League, error)
	ListByUser(ctx context.Context, userID int) ([]*models.League, error)
	UpdateFormat(ctx context.Context, id int, format models.TournamentFormat) error
	UpdateLogoURL(ctx context.Context, id int, logoURL string) error

	// MarkBracketGenerated atomically flips bracket_generated from false to
	// true. It runs on the provided executor so the caller can bind it to the
	// same transaction as the match batch insert.
	MarkBracketGenerated(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (name, owner_id, tournament_format)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.Name,
		league.OwnerID,
		league.TournamentFormat,
	).Scan(&league.ID, &league.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (r *postgresLeagueRepository) scanLeague(rowScanner interface {
	Scan(dest ...interface{}) error
}, l *models.League) error {
	return rowScanner.Scan(
		&l.ID,
		&l.Name,
		&l.OwnerID,
		&l.TournamentFormat,
		&l.LogoURL,
		&l.BracketGenerated,
		&l.CreatedAt,
	)
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `
		SELECT id, name, owner_id, tournament_format, logo_url, bracket_generated, created_at
		FROM leagues WHERE id = $1`

	l := &models.League{}
	err := r.scanLeague(r.db.QueryRowContext(ctx, query, id), l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to find league %d: %w", id, err)
	}
	return l, nil
}

func (r *postgresLeagueRepository) ListByUser(ctx context.Context, userID int) ([]*models.League, error) {
	query := `
		SELECT l.id, l.name, l.owner_id, l.tournament_format, l.logo_url, l.bracket_generated, l.created_at
		FROM leagues l
		JOIN members m ON m.league_id = l.id
		WHERE m.user_id = $1
		ORDER BY l.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues for user %d: %w", userID, err)
	}
	defer rows.Close()

	leagues := make([]*models.League, 0)
	for rows.Next() {
		l := &models.League{}
		if err := r.scanLeague(rows, l); err != nil {
			return nil, fmt.Errorf("failed to scan league row: %w", err)
		}
		leagues = append(leagues, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating league rows: %w", err)
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) UpdateFormat(ctx context.Context, id int, format models.TournamentFormat) error {
	query := `UPDATE leagues SET tournament_format = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, format, id)
	if err != nil {
		return fmt.Errorf("failed to update league format: %w", err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) UpdateLogoURL(ctx context.Context, id int, logoURL string) error {
	query := `UPDATE leagues SET logo_url = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update league logo: %w", err)
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) MarkBracketGenerated(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE leagues SET bracket_generated = TRUE WHERE id = $1 AND bracket_generated = FALSE`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark league bracket generated: %w", err)
	}
	return checkAffectedRows(result, ErrLeagueBracketFlagSet)
}
