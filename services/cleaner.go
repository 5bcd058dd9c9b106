package services

import (
	"fmt"
	"math"
	"strings"

	"locamoi-scraper/gazetteer"
	"locamoi-scraper/models"
	"locamoi-scraper/utils"
)

// Stage is one step of the normalization pipeline: a pure function from
// dataset to dataset. Stages only filter records or attach their own derived
// columns; they never raise on malformed input.
type Stage struct {
	Name  string
	Apply func([]*models.Listing) []*models.Listing
}

// Pipeline runs an ordered sequence of stages and logs the record count
// surviving each one. Output ordering is the insertion order of survivors.
type Pipeline struct {
	logger *utils.Logger
	stages []Stage
}

// NewPipeline creates a Pipeline over the given stages, applied in order.
func NewPipeline(logger *utils.Logger, stages ...Stage) *Pipeline {
	return &Pipeline{logger: logger, stages: stages}
}

// Run applies every stage in order.
func (p *Pipeline) Run(listings []*models.Listing) []*models.Listing {
	for _, stage := range p.stages {
		before := len(listings)
		listings = stage.Apply(listings)
		p.logger.Info("[clean] %s: %d -> %d (dropped %d)",
			stage.Name, before, len(listings), before-len(listings))
	}
	return listings
}

// Cleaner provides the deterministic cleaning stages. Geocoding enrichment is
// appended by the caller so the pure stages stay testable without a network.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Stages returns the cleaning stages in their required order. The
// extreme-value filter runs before geocoding so obviously-invalid rows never
// cost an external call.
func (c *Cleaner) Stages() []Stage {
	return []Stage{
		{Name: "normalize-cities", Apply: c.NormalizeCities},
		{Name: "dedup", Apply: c.RemoveExactDuplicates},
		{Name: "drop-missing-core-fields", Apply: c.DropMissingCoreFields},
		{Name: "derive-price-per-m2", Apply: c.AddPricePerM2},
		{Name: "drop-extreme-values", Apply: c.FilterExtremeValues},
	}
}

// NormalizeCities lowercases, accent-strips and trims the city column.
func (c *Cleaner) NormalizeCities(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		nl := *l
		nl.City = strings.TrimSpace(strings.ToLower(gazetteer.StripAccents(l.City)))
		out = append(out, &nl)
	}
	return out
}

// RemoveExactDuplicates drops records sharing identical title, city, surface,
// room count and rent, keeping the first occurrence in aggregation order.
// It is idempotent.
func (c *Cleaner) RemoveExactDuplicates(listings []*models.Listing) []*models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]*models.Listing, 0, len(listings))

	for _, l := range listings {
		key := fmt.Sprintf("%s|%s|%s|%s|%s",
			l.Title, l.City, floatKey(l.Surface), intKey(l.Rooms), floatKey(l.Rent))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}

// DropMissingCoreFields drops any record missing rent, surface or room count.
func (c *Cleaner) DropMissingCoreFields(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Rent == nil || l.Surface == nil || l.Rooms == nil {
			continue
		}
		out = append(out, l)
	}
	return out
}

// AddPricePerM2 attaches prix_m2 = round(rent / surface, 1). Rent and surface
// are guaranteed present here, so an unusable quotient can only mean a zero
// surface; that record is dropped rather than carried with an infinite value.
func (c *Cleaner) AddPricePerM2(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Rent == nil || l.Surface == nil {
			continue
		}
		v := *l.Rent / *l.Surface
		if math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		l.PricePerM2 = models.Float64(math.Round(v*10) / 10)
		out = append(out, l)
	}
	return out
}

// FilterExtremeValues drops records with rent above 15000 €/month or surface
// above 1000 m². The thresholds themselves are kept.
func (c *Cleaner) FilterExtremeValues(listings []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Rent != nil && *l.Rent > 15000 {
			continue
		}
		if l.Surface != nil && *l.Surface > 1000 {
			continue
		}
		out = append(out, l)
	}
	return out
}

func floatKey(v *float64) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%g", *v)
}

func intKey(v *int) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%d", *v)
}
