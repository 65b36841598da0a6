package app

import (
	"context"
	"sort"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

// topPerformersLimit caps the cross-country ranking.
const topPerformersLimit = 10

// LeaderboardRepository serves precomputed score records (cache in front of a loader).
type LeaderboardRepository interface {
	GetScores(ctx context.Context, countryCode string) ([]domain.ScoreRecord, error)
	ListCountries(ctx context.Context) ([]string, error)
}

// LeaderboardService ranks precomputed score records. It never writes.
type LeaderboardService struct {
	repo           LeaderboardRepository
	countries      *CountryService
	totalQuestions int
	now            func() time.Time
}

func NewLeaderboardService(repo LeaderboardRepository, countries *CountryService, totalQuestions int) *LeaderboardService {
	return NewLeaderboardServiceWithClock(repo, countries, totalQuestions, time.Now)
}

// NewLeaderboardServiceWithClock is test-only for deterministic timestamps.
func NewLeaderboardServiceWithClock(repo LeaderboardRepository, countries *CountryService, totalQuestions int, now func() time.Time) *LeaderboardService {
	if totalQuestions <= 0 {
		totalQuestions = DefaultQuizLength
	}
	return &LeaderboardService{repo: repo, countries: countries, totalQuestions: totalQuestions, now: now}
}

// ByCountry returns the ranked board for code. Unknown codes yield an empty board.
func (s *LeaderboardService) ByCountry(ctx context.Context, code string) (domain.Leaderboard, error) {
	code = NormalizeCountryCode(code)
	records, err := s.repo.GetScores(ctx, code)
	if err != nil {
		return domain.Leaderboard{}, err
	}

	ranked := append([]domain.ScoreRecord(nil), records...)
	// Ties keep the source order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	name := s.countryName(code)
	entries := make([]domain.LeaderboardEntry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, domain.LeaderboardEntry{
			Rank:           i + 1,
			PlayerName:     r.PlayerName,
			Score:          r.Score,
			TotalQuestions: s.totalQuestions,
			Percentage:     r.Percentage,
			CompletedAt:    r.CompletedAt,
			CountryCode:    code,
			CountryName:    name,
		})
	}

	return domain.Leaderboard{
		CountryCode:  code,
		CountryName:  name,
		Entries:      entries,
		TotalPlayers: len(entries),
		LastUpdated:  s.now(),
	}, nil
}

// Global returns every country board plus the overall top performers.
func (s *LeaderboardService) Global(ctx context.Context) (domain.GlobalLeaderboard, error) {
	codes, err := s.AvailableCountries(ctx)
	if err != nil {
		return domain.GlobalLeaderboard{}, err
	}

	boards := make([]domain.Leaderboard, 0, len(codes))
	var all []domain.LeaderboardEntry
	for _, code := range codes {
		board, err := s.ByCountry(ctx, code)
		if err != nil {
			return domain.GlobalLeaderboard{}, err
		}
		boards = append(boards, board)
		all = append(all, board.Entries...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Percentage != all[j].Percentage {
			return all[i].Percentage > all[j].Percentage
		}
		return all[i].Score > all[j].Score
	})
	if len(all) > topPerformersLimit {
		all = all[:topPerformersLimit]
	}
	top := make([]domain.LeaderboardEntry, len(all))
	for i, e := range all {
		e.Rank = i + 1
		top[i] = e
	}

	return domain.GlobalLeaderboard{Leaderboards: boards, TopPerformers: top}, nil
}

// AvailableCountries lists codes that have a board, in directory order.
// Codes the directory does not know are appended alphabetically.
func (s *LeaderboardService) AvailableCountries(ctx context.Context) ([]string, error) {
	codes, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(codes))
	for _, c := range codes {
		present[NormalizeCountryCode(c)] = true
	}

	out := make([]string, 0, len(present))
	for _, c := range s.countries.Codes() {
		if present[c] {
			out = append(out, c)
			delete(present, c)
		}
	}
	rest := make([]string, 0, len(present))
	for c := range present {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	return append(out, rest...), nil
}

func (s *LeaderboardService) countryName(code string) string {
	if c, err := s.countries.FindByCode(code); err == nil {
		return c.Name
	}
	return code
}
