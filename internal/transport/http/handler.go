package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/KevinSet35/geo-whiz/internal/app"
	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizEngine interface {
	GenerateQuiz(ctx context.Context, countryCode string) ([]domain.DeliveredQuestion, error)
	ScoreSubmission(ctx context.Context, submission domain.AnswerSubmission) (domain.ScoredResult, error)
	HasAuthoredQuiz(countryCode string) bool
}

type CountryDirectory interface {
	List() []domain.CountrySummary
	FindByCode(code string) (domain.Country, error)
}

type Leaderboards interface {
	ByCountry(ctx context.Context, code string) (domain.Leaderboard, error)
	Global(ctx context.Context) (domain.GlobalLeaderboard, error)
	AvailableCountries(ctx context.Context) ([]string, error)
}

// QuizRecorder receives per-quiz events; *metrics.Metrics satisfies it.
type QuizRecorder interface {
	QuizGenerated(country string, fallback bool)
	SubmissionScored(country string, percentage int)
}

type Handler struct {
	quiz          QuizEngine
	countries     CountryDirectory
	leaderboards  Leaderboards
	recorder      QuizRecorder
	log           *zap.Logger
	revealAnswers bool
}

type HandlerOption func(*Handler)

// WithRevealAnswers keeps correctAnswer in generated quizzes.
func WithRevealAnswers(reveal bool) HandlerOption {
	return func(h *Handler) { h.revealAnswers = reveal }
}

func WithRecorder(r QuizRecorder) HandlerOption {
	return func(h *Handler) { h.recorder = r }
}

func WithLogger(log *zap.Logger) HandlerOption {
	return func(h *Handler) { h.log = log }
}

func NewHandler(quiz QuizEngine, countries CountryDirectory, leaderboards Leaderboards, opts ...HandlerOption) *Handler {
	h := &Handler{
		quiz:         quiz,
		countries:    countries,
		leaderboards: leaderboards,
		recorder:     nopRecorder{},
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type answerRequest struct {
	QuestionID int    `json:"questionId" binding:"required"`
	UserAnswer string `json:"userAnswer"`
}

type submitRequest struct {
	CountryCode string          `json:"countryCode" binding:"required"`
	Answers     []answerRequest `json:"answers" binding:"required,dive"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listCountries(c *gin.Context) {
	c.JSON(http.StatusOK, h.countries.List())
}

func (h *Handler) getCountry(c *gin.Context) {
	country, err := h.countries.FindByCode(c.Param("code"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, country)
}

func (h *Handler) generateQuiz(c *gin.Context) {
	code := app.NormalizeCountryCode(c.Param("countryCode"))
	questions, err := h.quiz.GenerateQuiz(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !h.revealAnswers {
		for i := range questions {
			questions[i].CorrectAnswer = ""
		}
	}
	fallback := !h.quiz.HasAuthoredQuiz(code)
	h.recorder.QuizGenerated(code, fallback)
	h.log.Debug("quiz generated",
		zap.String("country", code),
		zap.Int("questions", len(questions)),
		zap.Bool("fallback", fallback),
	)
	c.JSON(http.StatusOK, questions)
}

func (h *Handler) submitQuiz(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission: " + err.Error()})
		return
	}

	submission := domain.AnswerSubmission{
		CountryCode: req.CountryCode,
		Answers:     make([]domain.Answer, 0, len(req.Answers)),
	}
	for _, a := range req.Answers {
		submission.Answers = append(submission.Answers, domain.Answer{QuestionID: a.QuestionID, UserAnswer: a.UserAnswer})
	}

	result, err := h.quiz.ScoreSubmission(c.Request.Context(), submission)
	if err != nil {
		h.writeError(c, err)
		return
	}
	code := app.NormalizeCountryCode(req.CountryCode)
	h.recorder.SubmissionScored(code, result.Percentage)
	h.log.Info("submission scored",
		zap.String("country", code),
		zap.Int("score", result.Score),
		zap.Int("percentage", result.Percentage),
	)
	c.JSON(http.StatusOK, result)
}

func (h *Handler) globalLeaderboard(c *gin.Context) {
	board, err := h.leaderboards.Global(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) availableLeaderboards(c *gin.Context) {
	codes, err := h.leaderboards.AvailableCountries(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *Handler) countryLeaderboard(c *gin.Context) {
	board, err := h.leaderboards.ByCountry(c.Request.Context(), c.Param("countryCode"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCountryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownQuestionID), errors.Is(err, domain.ErrMalformedSubmission):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type nopRecorder struct{}

func (nopRecorder) QuizGenerated(string, bool)   {}
func (nopRecorder) SubmissionScored(string, int) {}
