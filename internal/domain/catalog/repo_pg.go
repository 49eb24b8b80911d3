package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PGSource reads the catalog from the catalog_entries table
// (see migrations/001_catalog.sql).
type PGSource struct {
	db queryable
}

// NewPGSource accepts a *pgxpool.Pool or any other pgx query surface.
func NewPGSource(db queryable) *PGSource {
	return &PGSource{db: db}
}

const entryCols = `kind, entry_id, label`

func (s *PGSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.Query(ctx, `SELECT `+entryCols+` FROM catalog_entries ORDER BY kind, position, entry_id`)
	if err != nil {
		return nil, fmt.Errorf("query catalog entries: %w", err)
	}
	defer rows.Close()

	c := &Catalog{}
	for rows.Next() {
		var kind string
		var e Entry
		if err := rows.Scan(&kind, &e.ID, &e.Label); err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		switch Kind(kind) {
		case KindSymptom:
			c.Symptoms = append(c.Symptoms, e)
		case KindAllergy:
			c.Allergies = append(c.Allergies, e)
		default:
			return nil, fmt.Errorf("catalog entry %q: unknown kind %q", e.ID, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog entries: %w", err)
	}

	if c.Allergies == nil {
		c.Allergies = []Entry{}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
