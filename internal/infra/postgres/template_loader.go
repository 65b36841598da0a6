package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// TemplateLoader loads the authored question bank from the question_templates table.
type TemplateLoader struct {
	pool *pgxpool.Pool
}

func NewTemplateLoader(pool *pgxpool.Pool) *TemplateLoader {
	return &TemplateLoader{pool: pool}
}

func (l *TemplateLoader) LoadTemplates(ctx context.Context) (map[string][]domain.QuestionTemplate, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT country_code, id, question, options, correct_answer
		FROM question_templates
		ORDER BY country_code, id`)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.QuestionTemplate)
	for rows.Next() {
		var (
			code    string
			t       domain.QuestionTemplate
			options []byte
		)
		if err := rows.Scan(&code, &t.ID, &t.Question, &options, &t.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal(options, &t.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for %s/%d: %w", code, t.ID, err)
		}
		out[code] = append(out[code], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}
