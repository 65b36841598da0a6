package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KevinSet35/geo-whiz/internal/app"
	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/KevinSet35/geo-whiz/internal/infra/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockQuizEngine struct {
	mock.Mock
}

func (m *mockQuizEngine) GenerateQuiz(ctx context.Context, code string) ([]domain.DeliveredQuestion, error) {
	args := m.Called(ctx, code)
	q, _ := args.Get(0).([]domain.DeliveredQuestion)
	return q, args.Error(1)
}

func (m *mockQuizEngine) ScoreSubmission(ctx context.Context, sub domain.AnswerSubmission) (domain.ScoredResult, error) {
	args := m.Called(ctx, sub)
	r, _ := args.Get(0).(domain.ScoredResult)
	return r, args.Error(1)
}

func (m *mockQuizEngine) HasAuthoredQuiz(code string) bool {
	return m.Called(code).Bool(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGenerateQuizHidesCorrectAnswer(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodGet, "/api/quiz/us", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 20)
	for _, q := range raw {
		require.NotContains(t, q, "correctAnswer")
		require.Contains(t, q, "options")
	}
}

func TestGenerateQuizRevealsWhenConfigured(t *testing.T) {
	router := newTestRouter(t, true, nil)

	w := doRequest(router, http.MethodGet, "/api/quiz/JP", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var questions []domain.DeliveredQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &questions))
	for _, q := range questions {
		require.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestGenerateQuizFallbackAndUnknown(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodGet, "/api/quiz/BR", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var questions []domain.DeliveredQuestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &questions))
	require.Len(t, questions, 5)

	w = doRequest(router, http.MethodGet, "/api/quiz/ZZ", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "country not found")
}

func TestSubmitScoresAgainstStore(t *testing.T) {
	router := newTestRouter(t, false, nil)
	bank, err := memory.EmbeddedTemplates()
	require.NoError(t, err)

	answers := make([]map[string]interface{}, 0, 20)
	for _, q := range bank["FR"] {
		answers = append(answers, map[string]interface{}{"questionId": q.ID, "userAnswer": q.CorrectAnswer})
	}
	answers[0]["userAnswer"] = ""

	w := doRequest(router, http.MethodPost, "/api/quiz/submit", map[string]interface{}{"countryCode": "FR", "answers": answers})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.ScoredResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 19, result.Score)
	require.Equal(t, 20, result.TotalQuestions)
	require.Equal(t, 95, result.Percentage)
	require.False(t, result.Answers[0].IsCorrect)
	require.NotEmpty(t, result.Answers[0].CorrectAnswer)
}

func TestSubmitErrorMapping(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodPost, "/api/quiz/submit", map[string]interface{}{"answers": []interface{}{}})
	require.Equal(t, http.StatusBadRequest, w.Code, "missing countryCode")

	w = doRequest(router, http.MethodPost, "/api/quiz/submit", map[string]interface{}{
		"countryCode": "US",
		"answers":     []map[string]interface{}{{"questionId": 1, "userAnswer": "x"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, "wrong answer count")
	require.Contains(t, w.Body.String(), "malformed submission")

	w = doRequest(router, http.MethodPost, "/api/quiz/submit", map[string]interface{}{"countryCode": "ZZ", "answers": []interface{}{}})
	require.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/quiz/submit", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerWithMockedEngine(t *testing.T) {
	engine := new(mockQuizEngine)
	engine.On("ScoreSubmission", mock.Anything, domain.AnswerSubmission{
		CountryCode: "US",
		Answers:     []domain.Answer{{QuestionID: 7, UserAnswer: "Dollar"}},
	}).Return(domain.ScoredResult{}, domain.ErrUnknownQuestionID).Once()
	engine.On("GenerateQuiz", mock.Anything, "US").Return(nil, errors.New("boom")).Once()

	countries, leaderboards := newDirectoryAndBoards(t)
	router := NewRouter(NewHandler(engine, countries, leaderboards), RouterOptions{})

	w := doRequest(router, http.MethodPost, "/api/quiz/submit", map[string]interface{}{
		"countryCode": "US",
		"answers":     []map[string]interface{}{{"questionId": 7, "userAnswer": "Dollar"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/quiz/US", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())

	engine.AssertExpectations(t)
}

func TestCountryRoutes(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodGet, "/api/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summaries []domain.CountrySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summaries))
	require.Len(t, summaries, 12)

	w = doRequest(router, http.MethodGet, "/api/countries/de", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"capital":"Berlin"`)

	w = doRequest(router, http.MethodGet, "/api/countries/XX", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeaderboardRoutes(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodGet, "/api/leaderboard/countries/available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var codes []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &codes))
	require.Len(t, codes, 12)

	w = doRequest(router, http.MethodGet, "/api/leaderboard/JP", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board domain.Leaderboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Equal(t, "Japan", board.CountryName)
	require.Equal(t, 1, board.Entries[0].Rank)

	w = doRequest(router, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var global domain.GlobalLeaderboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &global))
	require.Len(t, global.TopPerformers, 10)
}

func TestHealthAndRequestID(t *testing.T) {
	router := newTestRouter(t, false, nil)

	w := doRequest(router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestSubmitIsRateLimited(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	router := newTestRouter(t, false, limiter)

	body := map[string]interface{}{"countryCode": "ZZ", "answers": []interface{}{}}
	require.Equal(t, http.StatusNotFound, doRequest(router, http.MethodPost, "/api/quiz/submit", body).Code)
	require.Equal(t, http.StatusNotFound, doRequest(router, http.MethodPost, "/api/quiz/submit", body).Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(router, http.MethodPost, "/api/quiz/submit", body).Code)

	// Quiz generation is not limited.
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/quiz/US", nil).Code)
}

func newTestRouter(t *testing.T, reveal bool, limiter *RateLimiter) *gin.Engine {
	t.Helper()
	bank, err := memory.EmbeddedTemplates()
	require.NoError(t, err)
	store, err := app.NewQuestionStore(bank)
	require.NoError(t, err)

	countries, leaderboards := newDirectoryAndBoards(t)
	quiz := app.NewQuizServiceWithRandomizer(store, countries, app.DefaultQuizLength, rand.New(rand.NewPCG(4, 2)))
	h := NewHandler(quiz, countries, leaderboards, WithRevealAnswers(reveal), WithLogger(zap.NewNop()))
	return NewRouter(h, RouterOptions{SubmitLimiter: limiter, Logger: zap.NewNop()})
}

func newDirectoryAndBoards(t *testing.T) (*app.CountryService, *app.LeaderboardService) {
	t.Helper()
	list, err := memory.EmbeddedCountries()
	require.NoError(t, err)
	countries, err := app.NewCountryService(list)
	require.NoError(t, err)
	boards, err := memory.EmbeddedLeaderboards()
	require.NoError(t, err)
	repo := memory.NewLeaderboardRepository(memory.NewStaticLeaderboardLoader(boards), time.Minute)
	return countries, app.NewLeaderboardService(repo, countries, app.DefaultQuizLength)
}

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
