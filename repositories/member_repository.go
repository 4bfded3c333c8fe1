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
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberConflict = errors.New("member conflict: user is already in this league")
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	Get(ctx context.Context, leagueID, userID int) (*models.Member, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Member, error)

	// ListActiveByLeague resolves the participant pool for bracket generation
	// and standings: members with status "active", in no particular order.
	ListActiveByLeague(ctx context.Context, leagueID int) ([]*models.Member, error)

	UpdateStatus(ctx context.Context, leagueID, userID int, status models.MemberStatus) error
	UpdateRole(ctx context.Context, leagueID, userID int, role models.MemberRole) error
	Delete(ctx context.Context, leagueID, userID int) error
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (league_id, user_id, status, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.LeagueID,
		member.UserID,
		member.Status,
		member.Role,
	).Scan(&member.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrMemberConflict
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *postgresMemberRepository) scanMember(rowScanner interface {
	Scan(dest ...interface{}) error
}, m *models.Member) error {
	return rowScanner.Scan(
		&m.LeagueID,
		&m.UserID,
		&m.Status,
		&m.Role,
		&m.DisplayName,
		&m.CreatedAt,
	)
}

const memberSelect = `
	SELECT m.league_id, m.user_id, m.status, m.role,
	       COALESCE(NULLIF(u.display_name, ''), u.email) AS display_name,
	       m.created_at
	FROM members m
	JOIN users u ON u.id = m.user_id`

func (r *postgresMemberRepository) Get(ctx context.Context, leagueID, userID int) (*models.Member, error) {
	query := memberSelect + ` WHERE m.league_id = $1 AND m.user_id = $2`
	m := &models.Member{}
	err := r.scanMember(r.db.QueryRowContext(ctx, query, leagueID, userID), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return m, nil
}

func (r *postgresMemberRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.Member, 0)
	for rows.Next() {
		m := &models.Member{}
		if err := r.scanMember(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (r *postgresMemberRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Member, error) {
	return r.list(ctx, memberSelect+` WHERE m.league_id = $1 ORDER BY m.created_at`, leagueID)
}

func (r *postgresMemberRepository) ListActiveByLeague(ctx context.Context, leagueID int) ([]*models.Member, error) {
	return r.list(ctx, memberSelect+` WHERE m.league_id = $1 AND m.status = $2`,
		leagueID, models.MemberStatusActive)
}

func (r *postgresMemberRepository) UpdateStatus(ctx context.Context, leagueID, userID int, status models.MemberStatus) error {
	query := `UPDATE members SET status = $1 WHERE league_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, status, leagueID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) UpdateRole(ctx context.Context, leagueID, userID int, role models.MemberRole) error {
	query := `UPDATE members SET role = $1 WHERE league_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, role, leagueID, userID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) Delete(ctx context.Context, leagueID, userID int) error {
	query := `DELETE FROM members WHERE league_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, leagueID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}
