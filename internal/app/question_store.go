package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

// TemplateLoader loads the authored question bank (embedded data, file, Postgres, object storage).
type TemplateLoader interface {
	LoadTemplates(ctx context.Context) (map[string][]domain.QuestionTemplate, error)
}

// QuestionStore is the read-only, two-level index of question templates:
// country code -> question id -> template. It is never mutated after construction,
// so concurrent readers need no locking.
type QuestionStore struct {
	byID    map[string]map[int]domain.QuestionTemplate
	ordered map[string][]domain.QuestionTemplate
}

// LoadQuestionStore builds a store from whatever the loader returns.
func LoadQuestionStore(ctx context.Context, loader TemplateLoader) (*QuestionStore, error) {
	raw, err := loader.LoadTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return NewQuestionStore(raw)
}

// NewQuestionStore validates raw and indexes it. Any malformed template fails the whole build.
func NewQuestionStore(raw map[string][]domain.QuestionTemplate) (*QuestionStore, error) {
	s := &QuestionStore{
		byID:    make(map[string]map[int]domain.QuestionTemplate, len(raw)),
		ordered: make(map[string][]domain.QuestionTemplate, len(raw)),
	}
	for code, templates := range raw {
		code = NormalizeCountryCode(code)
		if code == "" {
			return nil, fmt.Errorf("%w: empty country code", domain.ErrInvalidTemplate)
		}
		if _, dup := s.byID[code]; dup {
			return nil, fmt.Errorf("%w: country %s listed twice", domain.ErrInvalidTemplate, code)
		}

		index := make(map[int]domain.QuestionTemplate, len(templates))
		list := make([]domain.QuestionTemplate, 0, len(templates))
		for _, t := range templates {
			if err := validateTemplate(t); err != nil {
				return nil, fmt.Errorf("country %s question %d: %w", code, t.ID, err)
			}
			if _, dup := index[t.ID]; dup {
				return nil, fmt.Errorf("%w: country %s has duplicate question id %d", domain.ErrInvalidTemplate, code, t.ID)
			}
			t.Options = append([]string(nil), t.Options...)
			index[t.ID] = t
			list = append(list, t)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

		s.byID[code] = index
		s.ordered[code] = list
	}
	return s, nil
}

func validateTemplate(t domain.QuestionTemplate) error {
	if strings.TrimSpace(t.Question) == "" {
		return fmt.Errorf("%w: empty question text", domain.ErrInvalidTemplate)
	}
	if len(t.Options) < 2 {
		return fmt.Errorf("%w: needs at least 2 options, got %d", domain.ErrInvalidTemplate, len(t.Options))
	}
	matches := 0
	for _, opt := range t.Options {
		if opt == t.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("%w: correct answer %q appears %d times in options", domain.ErrInvalidTemplate, t.CorrectAnswer, matches)
	}
	return nil
}

// TemplatesForCountry returns the country's templates ordered by id. ok is false
// when the country has no authored questions; that is an expected case, not an error.
// The returned slice is a copy and may be reordered by the caller.
func (s *QuestionStore) TemplatesForCountry(code string) ([]domain.QuestionTemplate, bool) {
	list, ok := s.ordered[NormalizeCountryCode(code)]
	if !ok || len(list) == 0 {
		return nil, false
	}
	return append([]domain.QuestionTemplate(nil), list...), true
}

// TemplateByID is the O(1) lookup used by scoring.
func (s *QuestionStore) TemplateByID(code string, id int) (domain.QuestionTemplate, bool) {
	index, ok := s.byID[NormalizeCountryCode(code)]
	if !ok {
		return domain.QuestionTemplate{}, false
	}
	t, ok := index[id]
	return t, ok
}

// HasCountry reports whether any authored questions exist for code.
func (s *QuestionStore) HasCountry(code string) bool {
	return len(s.ordered[NormalizeCountryCode(code)]) > 0
}

// Countries lists the country codes that have authored questions, sorted.
func (s *QuestionStore) Countries() []string {
	codes := make([]string, 0, len(s.ordered))
	for code := range s.ordered {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Size returns the total number of templates across all countries.
func (s *QuestionStore) Size() int {
	n := 0
	for _, list := range s.ordered {
		n += len(list)
	}
	return n
}

// NormalizeCountryCode trims and upper-cases a country code.
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
