package services

import (
	"fmt"
	"sort"
	"strings"

	"locamoi-scraper/models"
	"locamoi-scraper/utils"
)

// StatsService computes the validation summary printed at the end of a run:
// enough to sanity-check the cleaned dataset, nothing more.
type StatsService struct {
	logger *utils.Logger
}

// NewStatsService creates a StatsService with the given logger.
func NewStatsService(logger *utils.Logger) *StatsService {
	return &StatsService{logger: logger}
}

// Generate computes the summary over the cleaned dataset.
func (s *StatsService) Generate(listings []*models.Listing) *models.CleanReport {
	report := &models.CleanReport{
		ListingsByRegion: make(map[string]int),
	}

	report.TotalListings = len(listings)

	var prices []float64
	for _, l := range listings {
		if l.PricePerM2 != nil {
			prices = append(prices, *l.PricePerM2)
		}
		if l.Lat == nil || l.Lon == nil {
			report.Unresolved++
		}
		if l.Region != "" {
			report.ListingsByRegion[l.Region]++
		}
	}

	if len(prices) > 0 {
		var total float64
		for _, p := range prices {
			total += p
		}
		report.MeanPricePerM2 = round2(total / float64(len(prices)))

		sort.Float64s(prices)
		mid := len(prices) / 2
		if len(prices)%2 == 0 {
			report.MedianPricePerM2 = round2((prices[mid-1] + prices[mid]) / 2)
		} else {
			report.MedianPricePerM2 = round2(prices[mid])
		}
	}

	return report
}

// Print renders the report to stdout.
func (s *StatsService) Print(r *models.CleanReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  LOCAMOI DATASET SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings kept            : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Unresolved coordinates   : \033[1m%d\033[0m\n", r.Unresolved)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price per m²\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.MeanPricePerM2 > 0 {
		fmt.Printf("  Mean   : \033[1;32m%.2f €/m²\033[0m\n", r.MeanPricePerM2)
		fmt.Printf("  Median : \033[1;32m%.2f €/m²\033[0m\n", r.MedianPricePerM2)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by region\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByRegion) == 0 {
		fmt.Printf("  No region data\n")
	} else {
		type regionCount struct {
			region string
			count  int
		}
		var regions []regionCount
		for region, cnt := range r.ListingsByRegion {
			regions = append(regions, regionCount{region, cnt})
		}
		sort.Slice(regions, func(i, j int) bool {
			return regions[i].count > regions[j].count
		})
		for _, rc := range regions {
			fmt.Printf("  %-30s %d\n", truncate(rc.region, 28), rc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
