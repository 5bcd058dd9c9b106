package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"locamoi-scraper/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func sampleListing() *models.Listing {
	return &models.Listing{
		ID:           "house_paris_p1_1",
		PropertyType: "house",
		Title:        "3 rooms house of 73m²",
		City:         "paris",
		Region:       "Ile-de-France",
		Surface:      models.Float64(73),
		Rooms:        models.Int(3),
		Rent:         models.Float64(1860),
		Address:      models.String("10 Rue de la Paix, 75002 Paris"),
		URL:          models.String("https://locamoi.fr/listing/42"),
	}
}

func TestRawCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "raw.csv")
	w, err := NewRawCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	sparse := &models.Listing{ID: "room_lyon_p1_1", PropertyType: "room",
		Title: "1 room of 20m²", City: "lyon", Region: "Auvergne-Rhône-Alpes"}

	if err := w.Write([]*models.Listing{sampleListing(), sparse}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][1] != "type_bien" || rows[0][9] != "url" {
		t.Errorf("unexpected raw header: %v", rows[0])
	}
	if rows[1][5] != "73" || rows[1][7] != "1860" {
		t.Errorf("unexpected numeric cells: %v", rows[1])
	}
	// Every nullable field of the sparse record renders as an empty cell.
	for _, col := range []int{5, 6, 7, 8, 9} {
		if rows[2][col] != "" {
			t.Errorf("column %d of sparse record: got %q, want empty", col, rows[2][col])
		}
	}
}

func TestCleanCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	w, err := NewCleanCSVWriter(path)
	if err != nil {
		t.Fatal(err)
	}

	l := sampleListing()
	l.PricePerM2 = models.Float64(25.5)
	l.Lat = models.Float64(48.8566)
	l.Lon = models.Float64(2.3522)

	if err := w.Write([]*models.Listing{l}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, path)
	header := rows[0]
	if header[len(header)-3] != "prix_m2" || header[len(header)-1] != "lon" {
		t.Errorf("unexpected clean header: %v", header)
	}
	for _, col := range header {
		if col == "url" {
			t.Error("clean dataset must not carry the url column")
		}
	}
	if rows[1][9] != "25.5" || rows[1][10] != "48.8566" || rows[1][11] != "2.3522" {
		t.Errorf("unexpected derived cells: %v", rows[1])
	}
}
