package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/uptrace/bun"
)

type questionTemplateRow struct {
	bun.BaseModel `bun:"table:question_templates"`

	CountryCode   string   `bun:"country_code,pk"`
	ID            int      `bun:"id,pk"`
	Question      string   `bun:"question"`
	Options       []string `bun:"options,type:jsonb"`
	CorrectAnswer string   `bun:"correct_answer"`
}

type countryRow struct {
	bun.BaseModel `bun:"table:countries"`

	Code       string   `bun:"code,pk"`
	Position   int      `bun:"position"`
	Name       string   `bun:"name"`
	Flag       string   `bun:"flag"`
	Capital    string   `bun:"capital"`
	Population int64    `bun:"population"`
	Area       int64    `bun:"area"`
	Languages  []string `bun:"languages,type:jsonb"`
	Currency   string   `bun:"currency"`
	Continent  string   `bun:"continent"`
}

type leaderboardEntryRow struct {
	bun.BaseModel `bun:"table:leaderboard_entries"`

	CountryCode string    `bun:"country_code,pk"`
	Position    int       `bun:"position,pk"`
	PlayerName  string    `bun:"player_name"`
	Score       int       `bun:"score"`
	Percentage  int       `bun:"percentage"`
	CompletedAt time.Time `bun:"completed_at"`
}

// SeedData is what Seed writes; each table is replaced wholesale.
type SeedData struct {
	Templates    map[string][]domain.QuestionTemplate
	Countries    []domain.Country
	Leaderboards map[string][]domain.ScoreRecord
}

// SeedCounts reports rows written per table.
type SeedCounts struct {
	Templates int
	Countries int
	Entries   int
}

// Seed replaces the contents of all three tables in a single transaction.
func Seed(ctx context.Context, db *bun.DB, data SeedData) (SeedCounts, error) {
	templates := templateRows(data.Templates)
	countries := countryRows(data.Countries)
	entries := leaderboardRows(data.Leaderboards)

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{(*questionTemplateRow)(nil), (*countryRow)(nil), (*leaderboardEntryRow)(nil)} {
			if _, err := tx.NewTruncateTable().Model(model).Exec(ctx); err != nil {
				return fmt.Errorf("truncate: %w", err)
			}
		}
		if len(templates) > 0 {
			if _, err := tx.NewInsert().Model(&templates).Exec(ctx); err != nil {
				return fmt.Errorf("insert templates: %w", err)
			}
		}
		if len(countries) > 0 {
			if _, err := tx.NewInsert().Model(&countries).Exec(ctx); err != nil {
				return fmt.Errorf("insert countries: %w", err)
			}
		}
		if len(entries) > 0 {
			if _, err := tx.NewInsert().Model(&entries).Exec(ctx); err != nil {
				return fmt.Errorf("insert leaderboard entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, err
	}
	return SeedCounts{Templates: len(templates), Countries: len(countries), Entries: len(entries)}, nil
}

func templateRows(bank map[string][]domain.QuestionTemplate) []questionTemplateRow {
	var rows []questionTemplateRow
	for _, code := range sortedKeys(bank) {
		for _, t := range bank[code] {
			rows = append(rows, questionTemplateRow{
				CountryCode:   code,
				ID:            t.ID,
				Question:      t.Question,
				Options:       t.Options,
				CorrectAnswer: t.CorrectAnswer,
			})
		}
	}
	return rows
}

func countryRows(countries []domain.Country) []countryRow {
	rows := make([]countryRow, 0, len(countries))
	for i, c := range countries {
		languages := c.Languages
		if languages == nil {
			languages = []string{}
		}
		rows = append(rows, countryRow{
			Code:       c.Code,
			Position:   i + 1,
			Name:       c.Name,
			Flag:       c.Flag,
			Capital:    c.Capital,
			Population: c.Population,
			Area:       c.Area,
			Languages:  languages,
			Currency:   c.Currency,
			Continent:  c.Continent,
		})
	}
	return rows
}

func leaderboardRows(boards map[string][]domain.ScoreRecord) []leaderboardEntryRow {
	var rows []leaderboardEntryRow
	for _, code := range sortedKeys(boards) {
		for i, r := range boards[code] {
			rows = append(rows, leaderboardEntryRow{
				CountryCode: code,
				Position:    i + 1,
				PlayerName:  r.PlayerName,
				Score:       r.Score,
				Percentage:  r.Percentage,
				CompletedAt: r.CompletedAt,
			})
		}
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
