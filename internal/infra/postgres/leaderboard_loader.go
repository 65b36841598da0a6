package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LeaderboardLoader reads precomputed score records from leaderboard_entries.
type LeaderboardLoader struct {
	pool *pgxpool.Pool
}

func NewLeaderboardLoader(pool *pgxpool.Pool) *LeaderboardLoader {
	return &LeaderboardLoader{pool: pool}
}

func (l *LeaderboardLoader) LoadScores(ctx context.Context, countryCode string) ([]domain.ScoreRecord, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT player_name, score, percentage, completed_at
		FROM leaderboard_entries
		WHERE country_code = $1
		ORDER BY position`, countryCode)
	if err != nil {
		return nil, fmt.Errorf("query scores for %s: %w", countryCode, err)
	}
	defer rows.Close()

	var out []domain.ScoreRecord
	for rows.Next() {
		var (
			r           domain.ScoreRecord
			completedAt time.Time
		)
		if err := rows.Scan(&r.PlayerName, &r.Score, &r.Percentage, &completedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		r.CompletedAt = completedAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *LeaderboardLoader) LoadCountries(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT country_code FROM leaderboard_entries ORDER BY country_code`)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard countries: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan country code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
