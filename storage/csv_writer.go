package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"locamoi-scraper/models"
)

var rawHeader = []string{
	"id", "type_bien", "titre", "ville", "region",
	"surface_m2", "nb_pieces", "loyer_mensuel_eur", "adresse", "url",
}

var cleanHeader = []string{
	"id", "type_bien", "titre", "ville", "region",
	"surface_m2", "nb_pieces", "loyer_mensuel_eur", "adresse",
	"prix_m2", "lat", "lon",
}

// CSVWriter persists a dataset to a CSV file. The raw layout carries the
// source URL; the clean layout drops it and adds the derived columns.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	clean  bool
}

// NewRawCSVWriter creates (or truncates) the raw-dataset CSV at path and
// writes its header row. Intermediate directories are created automatically.
func NewRawCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, rawHeader, false)
}

// NewCleanCSVWriter creates (or truncates) the clean-dataset CSV at path.
func NewCleanCSVWriter(path string) (*CSVWriter, error) {
	return newCSVWriter(path, cleanHeader, true)
}

func newCSVWriter(path string, header []string, clean bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, clean: clean}, nil
}

// Write appends one row per listing. Nil fields render as empty cells.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.ID,
			l.PropertyType,
			l.Title,
			l.City,
			l.Region,
			floatCell(l.Surface),
			intCell(l.Rooms),
			floatCell(l.Rent),
			stringCell(l.Address),
		}
		if c.clean {
			row = append(row, floatCell(l.PricePerM2), floatCell(l.Lat), floatCell(l.Lon))
		} else {
			row = append(row, stringCell(l.URL))
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func stringCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
