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
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteTokenConflict = errors.New("invite token conflict")
	ErrInviteLeagueInvalid = errors.New("invite league invalid")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Invite, error)
	Delete(ctx context.Context, id int) error
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (league_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.LeagueID,
		invite.Token,
		invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrInviteTokenConflict
			case "23503":
				return ErrInviteLeagueInvalid
			}
		}
		return fmt.Errorf("failed to create invite: %w", err)
	}
	return nil
}

func (r *postgresInviteRepository) scanInvite(rowScanner interface {
	Scan(dest ...interface{}) error
}, i *models.Invite) error {
	return rowScanner.Scan(&i.ID, &i.LeagueID, &i.Token, &i.ExpiresAt, &i.CreatedAt)
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := `SELECT id, league_id, token, expires_at, created_at FROM invites WHERE token = $1`
	i := &models.Invite{}
	err := r.scanInvite(r.db.QueryRowContext(ctx, query, token), i)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to find invite by token: %w", err)
	}
	return i, nil
}

func (r *postgresInviteRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Invite, error) {
	query := `SELECT id, league_id, token, expires_at, created_at FROM invites WHERE league_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites for league %d: %w", leagueID, err)
	}
	defer rows.Close()

	invites := make([]*models.Invite, 0)
	for rows.Next() {
		i := &models.Invite{}
		if err := r.scanInvite(rows, i); err != nil {
			return nil, fmt.Errorf("failed to scan invite row: %w", err)
		}
		invites = append(invites, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite rows: %w", err)
	}
	return invites, nil
}

func (r *postgresInviteRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}
