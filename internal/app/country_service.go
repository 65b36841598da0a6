package app

import (
	"context"
	"fmt"

	"github.com/KevinSet35/geo-whiz/internal/domain"
)

// CountryLoader fetches the country directory from its backing data.
type CountryLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// CountryLookup is the capability the quiz engine needs for its generic fallback.
type CountryLookup interface {
	FindByCode(code string) (domain.Country, error)
}

// CountryService is the read-only country directory.
type CountryService struct {
	ordered []domain.Country
	byCode  map[string]domain.Country
}

func LoadCountryService(ctx context.Context, loader CountryLoader) (*CountryService, error) {
	countries, err := loader.LoadCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	return NewCountryService(countries)
}

func NewCountryService(countries []domain.Country) (*CountryService, error) {
	s := &CountryService{
		ordered: make([]domain.Country, 0, len(countries)),
		byCode:  make(map[string]domain.Country, len(countries)),
	}
	for _, c := range countries {
		c.Code = NormalizeCountryCode(c.Code)
		if c.Code == "" || c.Name == "" {
			return nil, fmt.Errorf("country %q: code and name are required", c.Code)
		}
		if _, dup := s.byCode[c.Code]; dup {
			return nil, fmt.Errorf("country %s listed twice", c.Code)
		}
		s.byCode[c.Code] = c
		s.ordered = append(s.ordered, c)
	}
	return s, nil
}

// List returns code, name and flag for every country in directory order.
func (s *CountryService) List() []domain.CountrySummary {
	out := make([]domain.CountrySummary, 0, len(s.ordered))
	for _, c := range s.ordered {
		out = append(out, domain.CountrySummary{Code: c.Code, Name: c.Name, Flag: c.Flag})
	}
	return out
}

// FindByCode returns the full record for code.
func (s *CountryService) FindByCode(code string) (domain.Country, error) {
	c, ok := s.byCode[NormalizeCountryCode(code)]
	if !ok {
		return domain.Country{}, fmt.Errorf("%w: %s", domain.ErrCountryNotFound, code)
	}
	return c, nil
}

// Codes returns every known code in directory order.
func (s *CountryService) Codes() []string {
	out := make([]string, 0, len(s.ordered))
	for _, c := range s.ordered {
		out = append(out, c.Code)
	}
	return out
}
