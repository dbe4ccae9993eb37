package abtest

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Variant is one arm of an experiment.
type Variant struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// VariantResult aggregates engagement for one variant.
type VariantResult struct {
	Name        string  `json:"name"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	Conversions int     `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CVR         float64 `json:"cvr"`
}

// Store persists A/B experiments in SQLite. Serving a variant counts an
// impression; clicks and conversions are recorded separately.
type Store struct {
	db *sql.DB
}

// Open creates the store, creating the schema when missing.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS ab_experiments (
		id TEXT PRIMARY KEY,
		name TEXT,
		created_at TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS ab_variants (
		id TEXT PRIMARY KEY,
		experiment_id TEXT,
		name TEXT,
		content TEXT,
		impressions INTEGER DEFAULT 0,
		clicks INTEGER DEFAULT 0,
		conversions INTEGER DEFAULT 0,
		FOREIGN KEY (experiment_id) REFERENCES ab_experiments(id)
	);`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateExperiment creates an experiment with one variant per
// name/content pair and returns the experiment ID.
func (s *Store) CreateExperiment(ctx context.Context, name string, variants map[string]string) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("experiment needs at least one variant")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	experimentID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO ab_experiments (id, name, created_at) VALUES (?, ?, ?)",
		experimentID, name, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert experiment: %w", err)
	}

	for variantName, content := range variants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO ab_variants (id, experiment_id, name, content) VALUES (?, ?, ?, ?)",
			uuid.NewString(), experimentID, variantName, content,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert variant %q: %w", variantName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return experimentID, nil
}

// RandomVariant picks a uniformly random variant of the experiment and
// increments its impression count. Returns nil when the experiment has
// no variants.
func (s *Store) RandomVariant(ctx context.Context, experimentID string) (*Variant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, content FROM ab_variants WHERE experiment_id = ?", experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query variants: %w", err)
	}
	defer rows.Close()

	var variants []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.Name, &v.Content); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, nil
	}

	chosen := variants[rand.Intn(len(variants))]
	_, err = s.db.ExecContext(ctx,
		"UPDATE ab_variants SET impressions = impressions + 1 WHERE id = ?", chosen.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to record impression: %w", err)
	}
	return &chosen, nil
}

// RecordClick increments the click count of a variant.
func (s *Store) RecordClick(ctx context.Context, variantID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE ab_variants SET clicks = clicks + 1 WHERE id = ?", variantID)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// RecordConversion increments the conversion count of a variant.
func (s *Store) RecordConversion(ctx context.Context, variantID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE ab_variants SET conversions = conversions + 1 WHERE id = ?", variantID)
	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}
	return nil
}

// Results returns per-variant engagement rates. CTR is clicks per
// impression, CVR conversions per click, both zero when the denominator
// is zero.
func (s *Store) Results(ctx context.Context, experimentID string) ([]VariantResult, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT name, impressions, clicks, conversions
	FROM ab_variants
	WHERE experiment_id = ?`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []VariantResult
	for rows.Next() {
		var r VariantResult
		if err := rows.Scan(&r.Name, &r.Impressions, &r.Clicks, &r.Conversions); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if r.Impressions > 0 {
			r.CTR = float64(r.Clicks) / float64(r.Impressions)
		}
		if r.Clicks > 0 {
			r.CVR = float64(r.Conversions) / float64(r.Clicks)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
