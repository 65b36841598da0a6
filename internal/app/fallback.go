package app

import (
	"fmt"
	"math"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

const unknownFact = "Unknown"

// placeholderOptions pad every generic question; they are never correct.
var placeholderOptions = []string{"Option B", "Option C", "Option D", "Option E"}

// genericTemplates synthesizes the five-question quiz used for countries without authored content.
func genericTemplates(c domain.Country) []domain.QuestionTemplate {
	language := ""
	if len(c.Languages) > 0 {
		language = c.Languages[0]
	}
	millions := int64(math.Round(float64(c.Population) / 1_000_000))

	facts := []struct {
		question string
		answer   string
	}{
		{fmt.Sprintf("What is the capital of %s?", c.Name), orUnknown(c.Capital)},
		{fmt.Sprintf("What currency is used in %s?", c.Name), orUnknown(c.Currency)},
		{fmt.Sprintf("What continent is %s located in?", c.Name), orUnknown(c.Continent)},
		{fmt.Sprintf("What is the primary language in %s?", c.Name), orUnknown(language)},
		{fmt.Sprintf("What is the approximate population of %s?", c.Name), fmt.Sprintf("%d million", millions)},
	}

	out := make([]domain.QuestionTemplate, 0, len(facts))
	for i, f := range facts {
		options := append([]string{f.answer}, placeholderOptions...)
		out = append(out, domain.QuestionTemplate{
			ID:            i + 1,
			Question:      f.question,
			Options:       options,
			CorrectAnswer: f.answer,
		})
	}
	return out
}

func orUnknown(v string) string {
	if v == "" {
		return unknownFact
	}
	return v
}
