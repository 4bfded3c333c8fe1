package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openleague/league-system/models"
)

// BracketWriter persists a freshly generated bracket as a single atomic unit:
// the league's bracket_generated compare-and-set and the match batch commit
// together or not at all, so two racing generations cannot both succeed and a
// failed write leaves no partial bracket behind.
type BracketWriter interface {
	SaveBracket(ctx context.Context, leagueID int, matches []*models.Match) error
}

type postgresBracketWriter struct {
	db         *sql.DB
	leagueRepo LeagueRepository
	matchRepo  MatchRepository
}

func NewPostgresBracketWriter(db *sql.DB, leagueRepo LeagueRepository, matchRepo MatchRepository) BracketWriter {
	return &postgresBracketWriter{
		db:         db,
		leagueRepo: leagueRepo,
		matchRepo:  matchRepo,
	}
}

func (w *postgresBracketWriter) SaveBracket(ctx context.Context, leagueID int, matches []*models.Match) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			_ = tx.Rollback()
		}
	}()

	if txErr = w.leagueRepo.MarkBracketGenerated(ctx, tx, leagueID); txErr != nil {
		return txErr
	}
	if txErr = w.matchRepo.CreateBatch(ctx, tx, matches); txErr != nil {
		return txErr
	}
	if txErr = tx.Commit(); txErr != nil {
		return fmt.Errorf("failed to commit bracket for league %d: %w", leagueID, txErr)
	}
	return nil
}
