package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"locamoi-scraper/models"
	"locamoi-scraper/utils"
)

// PostgresWriter mirrors the cleaned dataset into PostgreSQL. The CSV file is
// the artifact of record; this sink is best effort and its absence never
// fails a run.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                TEXT PRIMARY KEY,
			type_bien         VARCHAR(50) NOT NULL,
			titre             TEXT        NOT NULL,
			ville             TEXT        NOT NULL,
			region            TEXT        NOT NULL,
			surface_m2        NUMERIC(8,1),
			nb_pieces         INT,
			loyer_mensuel_eur NUMERIC(10,2),
			adresse           TEXT,
			prix_m2           NUMERIC(8,1),
			lat               DOUBLE PRECISION,
			lon               DOUBLE PRECISION,
			scraped_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_prix_m2   ON listings(prix_m2);
		CREATE INDEX IF NOT EXISTS idx_listings_ville     ON listings(ville);
		CREATE INDEX IF NOT EXISTS idx_listings_type_bien ON listings(type_bien);
	`)
	return err
}

// Clear deletes all existing listings from the table.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM listings")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the cleaned dataset, clearing old data first.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	const cols = 12
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.ID, l.PropertyType, l.Title, l.City, l.Region,
			l.Surface, l.Rooms, l.Rent, l.Address,
			l.PricePerM2, l.Lat, l.Lon)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (id, type_bien, titre, ville, region,
			surface_m2, nb_pieces, loyer_mensuel_eur, adresse,
			prix_m2, lat, lon)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
