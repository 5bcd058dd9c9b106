package gazetteer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCitySlug(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"Paris", "paris"},
		{"Évry-Courcouronnes", "evry-courcouronnes"},
		{"Saint-Brieuc", "saint-brieuc"},
		{"Le Puy-en-Velay", "le-puy-en-velay"},
		{"Châlons-en-Champagne", "chalons-en-champagne"},
		{"La Roche-sur-Yon", "la-roche-sur-yon"},
	}

	for _, tt := range tests {
		if got := CitySlug(tt.city); got != tt.want {
			t.Errorf("CitySlug(%q) = %q; want %q", tt.city, got, tt.want)
		}
	}
}

func TestStripAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Évreux", "Evreux"},
		{"Nîmes", "Nimes"},
		{"Besançon", "Besancon"},
		{"Paris", "Paris"},
	}

	for _, tt := range tests {
		if got := StripAccents(tt.in); got != tt.want {
			t.Errorf("StripAccents(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsBroadCategory(t *testing.T) {
	broad := []string{"studio", "student_apartment"}
	for _, key := range broad {
		if !IsBroadCategory(key) {
			t.Errorf("expected %q to be a broad category", key)
		}
	}
	for _, key := range []string{"room", "house", "apartment"} {
		if IsBroadCategory(key) {
			t.Errorf("expected %q not to be a broad category", key)
		}
	}
}

func TestTypeByKey(t *testing.T) {
	pt, ok := TypeByKey("student_apartment")
	if !ok {
		t.Fatal("student_apartment missing from catalog")
	}
	if pt.Slug != "student-apartment" {
		t.Errorf("slug: got %q, want %q", pt.Slug, "student-apartment")
	}

	if _, ok := TypeByKey("castle"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestLoadDefault(t *testing.T) {
	regions, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if len(regions) != 12 {
		t.Errorf("default gazetteer: got %d regions, want 12", len(regions))
	}
	if len(regions["Ile-de-France"]) == 0 {
		t.Error("Ile-de-France should list its prefectures")
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	content := "Testland:\n  - Alpha\n  - Beta\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	regions, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q): %v", path, err)
	}
	if len(regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(regions))
	}
	cities := regions["Testland"]
	if len(cities) != 2 || cities[0] != "Alpha" || cities[1] != "Beta" {
		t.Errorf("unexpected cities: %v", cities)
	}
}

func TestLoadRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for a gazetteer file without regions")
	}
}
