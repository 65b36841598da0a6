package memory

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

//go:embed data/*.json
var dataFS embed.FS

// EmbeddedTemplates returns the authored question bank shipped with the binary.
func EmbeddedTemplates() (map[string][]domain.QuestionTemplate, error) {
	var out map[string][]domain.QuestionTemplate
	if err := decodeEmbedded("data/questions.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbeddedCountries returns the country directory shipped with the binary.
func EmbeddedCountries() ([]domain.Country, error) {
	var out []domain.Country
	if err := decodeEmbedded("data/countries.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbeddedLeaderboards returns the precomputed score records shipped with the binary.
func EmbeddedLeaderboards() (map[string][]domain.ScoreRecord, error) {
	var out map[string][]domain.ScoreRecord
	if err := decodeEmbedded("data/leaderboards.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeEmbedded(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// StaticTemplateLoader is a template loader backed by an in-memory map (useful for tests/demos).
type StaticTemplateLoader struct {
	templates map[string][]domain.QuestionTemplate
}

func NewStaticTemplateLoader(templates map[string][]domain.QuestionTemplate) *StaticTemplateLoader {
	return &StaticTemplateLoader{templates: templates}
}

func (l *StaticTemplateLoader) LoadTemplates(_ context.Context) (map[string][]domain.QuestionTemplate, error) {
	return l.templates, nil
}

// FileTemplateLoader reads a question bank JSON document from disk.
// The document has the same shape as the embedded bank: {"US": [{id, question, options, correctAnswer}]}.
type FileTemplateLoader struct {
	path string
}

func NewFileTemplateLoader(path string) *FileTemplateLoader {
	return &FileTemplateLoader{path: path}
}

func (l *FileTemplateLoader) LoadTemplates(_ context.Context) (map[string][]domain.QuestionTemplate, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var out map[string][]domain.QuestionTemplate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode question bank %s: %w", l.path, err)
	}
	return out, nil
}

// StaticCountryLoader serves a fixed country list.
type StaticCountryLoader struct {
	countries []domain.Country
}

func NewStaticCountryLoader(countries []domain.Country) *StaticCountryLoader {
	return &StaticCountryLoader{countries: countries}
}

func (l *StaticCountryLoader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	return l.countries, nil
}

// StaticLeaderboardLoader serves fixed score records per country.
type StaticLeaderboardLoader struct {
	boards map[string][]domain.ScoreRecord
}

func NewStaticLeaderboardLoader(boards map[string][]domain.ScoreRecord) *StaticLeaderboardLoader {
	return &StaticLeaderboardLoader{boards: boards}
}

func (l *StaticLeaderboardLoader) LoadScores(_ context.Context, countryCode string) ([]domain.ScoreRecord, error) {
	return l.boards[countryCode], nil
}

func (l *StaticLeaderboardLoader) LoadCountries(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(l.boards))
	for code, records := range l.boards {
		if len(records) > 0 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes, nil
}
