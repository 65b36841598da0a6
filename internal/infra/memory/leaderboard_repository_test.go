package memory

import (
	"context"
	"testing"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		LeaderboardLoader: NewStaticLeaderboardLoader(sampleBoards()),
	}
	repo := NewLeaderboardRepository(loader, time.Minute)

	records, err := repo.GetScores(context.Background(), "US")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 1, loader.scoreCalls)

	_, err = repo.GetScores(context.Background(), "US")
	require.NoError(t, err)
	require.Equal(t, 1, loader.scoreCalls, "expected cache hit")

	codes, err := repo.ListCountries(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"US"}, codes)
	_, _ = repo.ListCountries(context.Background())
	require.Equal(t, 1, loader.countryCalls)
}

func TestLeaderboardRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		LeaderboardLoader: NewStaticLeaderboardLoader(sampleBoards()),
	}
	repo := NewLeaderboardRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, err := repo.GetScores(context.Background(), "US")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = repo.GetScores(context.Background(), "US")
	require.NoError(t, err)
	require.Equal(t, 2, loader.scoreCalls, "expected reload after ttl")
}

func TestLeaderboardRepositoryUnknownCountryIsEmpty(t *testing.T) {
	repo := NewLeaderboardRepository(NewStaticLeaderboardLoader(sampleBoards()), time.Minute)

	records, err := repo.GetScores(context.Background(), "ZZ")
	require.NoError(t, err)
	require.Empty(t, records)
}

type countingLoader struct {
	LeaderboardLoader
	scoreCalls   int
	countryCalls int
}

func (l *countingLoader) LoadScores(ctx context.Context, countryCode string) ([]domain.ScoreRecord, error) {
	l.scoreCalls++
	return l.LeaderboardLoader.LoadScores(ctx, countryCode)
}

func (l *countingLoader) LoadCountries(ctx context.Context) ([]string, error) {
	l.countryCalls++
	return l.LeaderboardLoader.LoadCountries(ctx)
}

func sampleBoards() map[string][]domain.ScoreRecord {
	return map[string][]domain.ScoreRecord{
		"US": {
			{PlayerName: "Alex", Score: 19, Percentage: 95},
			{PlayerName: "Sam", Score: 18, Percentage: 90},
		},
	}
}
