package domain

import "time"

// QuestionTemplate is an authored quiz question. Correctness is decided by the
// literal CorrectAnswer text, never by option position.
type QuestionTemplate struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// DeliveredQuestion is a template with its options reordered for one quiz.
type DeliveredQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// Answer is a single (questionId, userAnswer) pair from a client.
type Answer struct {
	QuestionID int    `json:"questionId"`
	UserAnswer string `json:"userAnswer"`
}

// AnswerSubmission models a completed quiz sent back for scoring.
type AnswerSubmission struct {
	CountryCode string   `json:"countryCode"`
	Answers     []Answer `json:"answers"`
}

// AnswerResult is the per-question outcome of a scored submission.
type AnswerResult struct {
	QuestionID    int    `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// ScoredResult summarizes a scored submission.
type ScoredResult struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Percentage     int            `json:"percentage"`
	Answers        []AnswerResult `json:"answers"`
}

// Country holds the directory facts about a supported country.
type Country struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Flag       string   `json:"flag"`
	Capital    string   `json:"capital,omitempty"`
	Population int64    `json:"population,omitempty"`
	Area       int64    `json:"area,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	Continent  string   `json:"continent,omitempty"`
}

// CountrySummary is the list view of a country.
type CountrySummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// ScoreRecord is a stored leaderboard row before ranking.
type ScoreRecord struct {
	PlayerName  string    `json:"playerName"`
	Score       int       `json:"score"`
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completedAt"`
}

// LeaderboardEntry is a ranked row of a leaderboard.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	PlayerName     string    `json:"playerName"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Percentage     int       `json:"percentage"`
	CompletedAt    time.Time `json:"completedAt"`
	CountryCode    string    `json:"countryCode"`
	CountryName    string    `json:"countryName"`
}

// Leaderboard is the ranked board of a single country.
type Leaderboard struct {
	CountryCode  string             `json:"countryCode"`
	CountryName  string             `json:"countryName"`
	Entries      []LeaderboardEntry `json:"entries"`
	TotalPlayers int                `json:"totalPlayers"`
	LastUpdated  time.Time          `json:"lastUpdated"`
}

// GlobalLeaderboard aggregates every country board and the overall top performers.
type GlobalLeaderboard struct {
	Leaderboards  []Leaderboard      `json:"leaderboards"`
	TopPerformers []LeaderboardEntry `json:"topPerformers"`
}
