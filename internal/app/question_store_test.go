package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KevinSet35/geo-whiz/internal/app"
	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestQuestionStoreIndexesTemplates(t *testing.T) {
	store, err := app.NewQuestionStore(map[string][]domain.QuestionTemplate{
		"us": {
			{ID: 2, Question: "Q2?", Options: []string{"a", "b"}, CorrectAnswer: "b"},
			{ID: 1, Question: "Q1?", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		},
		"FR": {},
	})
	require.NoError(t, err)

	templates, ok := store.TemplatesForCountry(" US ")
	require.True(t, ok)
	require.Equal(t, 1, templates[0].ID)
	require.Equal(t, 2, templates[1].ID)

	templates[0] = domain.QuestionTemplate{}
	again, _ := store.TemplatesForCountry("US")
	require.Equal(t, 1, again[0].ID)

	q, ok := store.TemplateByID("US", 2)
	require.True(t, ok)
	require.Equal(t, "b", q.CorrectAnswer)
	_, ok = store.TemplateByID("US", 3)
	require.False(t, ok)

	_, ok = store.TemplatesForCountry("FR")
	require.False(t, ok, "empty bank behaves like a missing one")
	require.False(t, store.HasCountry("FR"))
	require.Equal(t, []string{"FR", "US"}, store.Countries())
	require.Equal(t, 2, store.Size())
}

func TestQuestionStoreRejectsInvalidTemplates(t *testing.T) {
	cases := map[string]map[string][]domain.QuestionTemplate{
		"empty code": {
			" ": {{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "a"}},
		},
		"same country twice": {
			"us": {{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "a"}},
			"US": {{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "a"}},
		},
		"blank question": {
			"US": {{ID: 1, Question: "  ", Options: []string{"a", "b"}, CorrectAnswer: "a"}},
		},
		"single option": {
			"US": {{ID: 1, Question: "Q?", Options: []string{"a"}, CorrectAnswer: "a"}},
		},
		"answer missing": {
			"US": {{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "c"}},
		},
		"answer twice": {
			"US": {{ID: 1, Question: "Q?", Options: []string{"a", "a", "b"}, CorrectAnswer: "a"}},
		},
		"duplicate id": {
			"US": {
				{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: "a"},
				{ID: 1, Question: "Other?", Options: []string{"a", "b"}, CorrectAnswer: "b"},
			},
		},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := app.NewQuestionStore(raw)
			require.ErrorIs(t, err, domain.ErrInvalidTemplate)
		})
	}
}

func TestLoadQuestionStorePropagatesLoaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := app.LoadQuestionStore(context.Background(), failingLoader{err: boom})
	require.ErrorIs(t, err, boom)
}

type failingLoader struct{ err error }

func (l failingLoader) LoadTemplates(context.Context) (map[string][]domain.QuestionTemplate, error) {
	return nil, l.err
}
