package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

// DefaultQuizLength is the number of questions served per quiz.
const DefaultQuizLength = 20

// QuizService contains the core quiz use cases: building randomized quizzes and scoring them.
// It keeps no per-quiz state; scoring re-resolves every answer against the immutable store.
type QuizService struct {
	store     *QuestionStore
	countries CountryLookup
	length    int
	rnd       Randomizer
}

func NewQuizService(store *QuestionStore, countries CountryLookup, length int) *QuizService {
	return NewQuizServiceWithRandomizer(store, countries, length, globalRand{})
}

// NewQuizServiceWithRandomizer is used by tests that need a deterministic shuffle.
func NewQuizServiceWithRandomizer(store *QuestionStore, countries CountryLookup, length int, rnd Randomizer) *QuizService {
	if length <= 0 {
		length = DefaultQuizLength
	}
	return &QuizService{store: store, countries: countries, length: length, rnd: rnd}
}

// Length is the configured number of questions per quiz.
func (s *QuizService) Length() int {
	return s.length
}

// HasAuthoredQuiz reports whether code has authored questions (as opposed to the generic fallback).
func (s *QuizService) HasAuthoredQuiz(code string) bool {
	return s.store.HasCountry(code)
}

// GenerateQuiz selects up to Length authored questions at random and shuffles each one's options.
// Countries without authored questions get the generic fallback quiz; only codes unknown to
// the country directory fail.
func (s *QuizService) GenerateQuiz(_ context.Context, countryCode string) ([]domain.DeliveredQuestion, error) {
	templates, ok := s.store.TemplatesForCountry(countryCode)
	if !ok {
		country, err := s.countries.FindByCode(countryCode)
		if err != nil {
			return nil, err
		}
		return s.deliver(genericTemplates(country)), nil
	}
	return s.deliver(selectRandom(s.rnd, templates, s.length)), nil
}

func (s *QuizService) deliver(templates []domain.QuestionTemplate) []domain.DeliveredQuestion {
	out := make([]domain.DeliveredQuestion, 0, len(templates))
	for _, t := range templates {
		out = append(out, domain.DeliveredQuestion{
			ID:            t.ID,
			Question:      t.Question,
			Options:       shuffle(s.rnd, t.Options),
			CorrectAnswer: t.CorrectAnswer,
		})
	}
	return out
}

// ExpectedAnswers is the number of answers a submission for code must carry:
// the quiz length, or the whole bank when the country has fewer authored questions.
func (s *QuizService) ExpectedAnswers(code string) int {
	templates, ok := s.store.TemplatesForCountry(code)
	if !ok {
		return 0
	}
	return min(s.length, len(templates))
}

// ScoreSubmission validates a submission and scores it against the authored templates.
// Scoring is pure: the same submission always yields the same result.
func (s *QuizService) ScoreSubmission(_ context.Context, submission domain.AnswerSubmission) (domain.ScoredResult, error) {
	code := NormalizeCountryCode(submission.CountryCode)
	if !s.store.HasCountry(code) {
		return domain.ScoredResult{}, fmt.Errorf("%w: no question bank for %q", domain.ErrCountryNotFound, submission.CountryCode)
	}

	total := s.ExpectedAnswers(code)
	if err := validateSubmission(submission, total); err != nil {
		return domain.ScoredResult{}, err
	}

	result := domain.ScoredResult{
		TotalQuestions: total,
		Answers:        make([]domain.AnswerResult, 0, len(submission.Answers)),
	}
	for _, answer := range submission.Answers {
		template, ok := s.store.TemplateByID(code, answer.QuestionID)
		if !ok {
			return domain.ScoredResult{}, fmt.Errorf("%w: %d for country %s", domain.ErrUnknownQuestionID, answer.QuestionID, code)
		}
		correct := isCorrectAnswer(template, answer.UserAnswer)
		if correct {
			result.Score++
		}
		result.Answers = append(result.Answers, domain.AnswerResult{
			QuestionID:    answer.QuestionID,
			UserAnswer:    answer.UserAnswer,
			CorrectAnswer: template.CorrectAnswer,
			IsCorrect:     correct,
		})
	}
	result.Percentage = percentage(result.Score, total)
	return result, nil
}

func validateSubmission(submission domain.AnswerSubmission, expected int) error {
	if len(submission.Answers) != expected {
		return fmt.Errorf("%w: expected %d answers, got %d", domain.ErrMalformedSubmission, expected, len(submission.Answers))
	}
	seen := make(map[int]struct{}, len(submission.Answers))
	for _, a := range submission.Answers {
		if _, dup := seen[a.QuestionID]; dup {
			return fmt.Errorf("%w: question %d answered twice", domain.ErrMalformedSubmission, a.QuestionID)
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}

// isCorrectAnswer compares by exact text; blank answers never count.
func isCorrectAnswer(t domain.QuestionTemplate, answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return false
	}
	return answer == t.CorrectAnswer
}

// percentage rounds score/total*100 half-up using integer arithmetic.
func percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return (score*200 + total) / (2 * total)
}
