package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KevinSet35/geo-whiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CountryLoader reads the country directory in its stored order.
type CountryLoader struct {
	pool *pgxpool.Pool
}

func NewCountryLoader(pool *pgxpool.Pool) *CountryLoader {
	return &CountryLoader{pool: pool}
}

func (l *CountryLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT code, name, flag, capital, population, area, languages, currency, continent
		FROM countries
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	var out []domain.Country
	for rows.Next() {
		var (
			c         domain.Country
			languages []byte
		)
		if err := rows.Scan(&c.Code, &c.Name, &c.Flag, &c.Capital, &c.Population, &c.Area, &languages, &c.Currency, &c.Continent); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		if err := json.Unmarshal(languages, &c.Languages); err != nil {
			return nil, fmt.Errorf("unmarshal languages for %s: %w", c.Code, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
