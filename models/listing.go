package models

// Listing is one scraped rental advert. Fields that may be absent from the
// source page are pointers; nil means "not extracted". Pipeline stages never
// mutate a listing in place except to attach their own derived columns —
// a listing leaves the dataset by omission from a stage's output.
type Listing struct {
	ID           string
	PropertyType string
	Title        string
	City         string
	Region       string
	Surface      *float64
	Rooms        *int
	Rent         *float64
	Address      *string
	URL          *string

	// Derived during cleaning.
	PricePerM2 *float64
	Lat        *float64
	Lon        *float64
}

// Coordinates is a resolved geographic point.
type Coordinates struct {
	Lat float64
	Lon float64
}

// CleanReport holds the validation summary computed over the cleaned dataset.
type CleanReport struct {
	TotalListings    int
	MeanPricePerM2   float64
	MedianPricePerM2 float64
	Unresolved       int
	ListingsByRegion map[string]int
}

// Float64 returns a pointer to v. Handy when building records and fixtures.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
