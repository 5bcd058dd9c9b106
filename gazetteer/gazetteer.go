// Package gazetteer holds the static scrape targets: the property-type
// catalog and the prefecture list of metropolitan France grouped by region
// (Corsica excluded). Both are read-only after Load.
package gazetteer

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v2"
)

// PropertyType maps a catalog key to the URL slug the site filters on and a
// human-readable label. The lowercased label is also the type word expected
// inside listing titles.
type PropertyType struct {
	Key   string
	Slug  string
	Label string
}

// Catalog is the fixed set of property types to scrape, in scrape order.
var Catalog = []PropertyType{
	{Key: "room", Slug: "room", Label: "Room"},
	{Key: "house", Slug: "house", Label: "House"},
	{Key: "apartment", Slug: "apartment", Label: "Apartment"},
	{Key: "studio", Slug: "studio", Label: "Studio"},
	{Key: "student_apartment", Slug: "student-apartment", Label: "Student apartment"},
}

// TypeByKey returns the catalog entry for key.
func TypeByKey(key string) (PropertyType, bool) {
	for _, pt := range Catalog {
		if pt.Key == key {
			return pt, true
		}
	}
	return PropertyType{}, false
}

// IsBroadCategory reports whether a catalog key accepts titles of any valid
// type word. The studio and student-apartment feeds aggregate adverts from
// every category, so their titles are not required to name the feed's type.
func IsBroadCategory(key string) bool {
	return key == "studio" || key == "student_apartment"
}

// Regions maps a region name to its prefecture cities. The default covers
// metropolitan France without Corsica.
type Regions map[string][]string

var defaultRegions = Regions{
	"Ile-de-France": {
		"Paris", "Créteil", "Versailles", "Nanterre",
		"Bobigny", "Melun", "Évry-Courcouronnes", "Pontoise",
	},
	"Hauts-de-France": {
		"Lille", "Arras", "Amiens", "Beauvais", "Laon",
	},
	"Normandie": {
		"Rouen", "Caen", "Évreux", "Saint-Lô", "Alençon",
	},
	"Grand Est": {
		"Strasbourg", "Metz", "Nancy", "Châlons-en-Champagne",
		"Charleville-Mézières", "Chaumont", "Bar-le-Duc", "Colmar",
		"Mulhouse", "Troyes",
	},
	"Bretagne": {
		"Rennes", "Quimper", "Vannes", "Saint-Brieuc",
	},
	"Pays de la Loire": {
		"Nantes", "Angers", "Le Mans", "Laval", "La Roche-sur-Yon",
	},
	"Centre-Val de Loire": {
		"Orléans", "Chartres", "Blois", "Tours", "Bourges", "Châteauroux",
	},
	"Bourgogne-Franche-Comté": {
		"Dijon", "Auxerre", "Nevers", "Mâcon", "Besançon",
		"Belfort", "Vesoul", "Lons-le-Saunier",
	},
	"Nouvelle-Aquitaine": {
		"Bordeaux", "Limoges", "Poitiers", "Périgueux", "Agen",
		"Montauban", "Pau", "Bayonne", "La Rochelle", "Angoulême",
		"Tulle", "Guéret",
	},
	"Occitanie": {
		"Toulouse", "Montpellier", "Nîmes", "Perpignan", "Carcassonne",
		"Foix", "Rodez", "Albi", "Mende", "Tarbes",
	},
	"Auvergne-Rhône-Alpes": {
		"Lyon", "Clermont-Ferrand", "Grenoble", "Saint-Étienne", "Annecy",
		"Chambéry", "Valence", "Le Puy-en-Velay", "Aurillac", "Moulins",
	},
	"Provence-Alpes-Côte d'Azur": {
		"Marseille", "Nice", "Toulon", "Avignon", "Gap", "Digne-les-Bains",
	},
}

// Load returns the region→city gazetteer. If path is non-empty the YAML file
// at path replaces the built-in list wholesale (a map of region name to city
// list). The file is read once; callers treat the result as immutable.
func Load(path string) (Regions, error) {
	if path == "" {
		return defaultRegions, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gazetteer: read %q: %w", path, err)
	}

	var regions Regions
	if err := yaml.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("gazetteer: parse %q: %w", path, err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("gazetteer: %q defines no regions", path)
	}
	return regions, nil
}

// StripAccents removes diacritics: "Évreux" → "Evreux". The transform chain
// is stateful, so it is built per call; tasks slug cities concurrently.
func StripAccents(s string) string {
	stripper := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripper, s)
	if err != nil {
		return s
	}
	return out
}

// CitySlug turns a city name into the URL-safe slug the search endpoint
// expects: "Évry-Courcouronnes" → "evry-courcouronnes".
func CitySlug(city string) string {
	slug := strings.ToLower(StripAccents(city))
	slug = strings.NewReplacer("'", "", "’", "", ",", "", " ", "-").Replace(slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return slug
}
