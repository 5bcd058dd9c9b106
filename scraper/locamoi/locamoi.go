// Package locamoi scrapes rental listings from the Locamoi search pages, one
// paginated feed per (city, property type) pair.
package locamoi

import (
	"sync"
	"time"

	"locamoi-scraper/config"
	"locamoi-scraper/gazetteer"
	"locamoi-scraper/models"
	"locamoi-scraper/utils"
)

// Task is one unit of scraping work: every result page for one property type
// in one city.
type Task struct {
	Region string
	City   string
	Type   gazetteer.PropertyType
}

// Scraper fans tasks out over a bounded worker pool and aggregates their
// listings. Tasks are independent; one failing never affects its siblings.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	fetcher *Fetcher
	pool    *utils.WorkerPool

	mu          sync.Mutex
	listings    []*models.Listing
	failedTasks int
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		fetcher: NewFetcher(time.Duration(cfg.FetchTimeoutS)*time.Second, logger),
		pool:    utils.NewWorkerPool(cfg.FetchConcurrency, cfg.RateLimitMs),
	}
}

// Scrape runs every (city, property type) task in the gazetteer's cross
// product and returns the aggregated listings plus the number of tasks that
// aborted with a panic. Ordering across tasks is arbitrary.
func (s *Scraper) Scrape(regions gazetteer.Regions) ([]*models.Listing, int) {
	var tasks []Task
	for region, cities := range regions {
		for _, city := range cities {
			for _, pt := range gazetteer.Catalog {
				tasks = append(tasks, Task{Region: region, City: city, Type: pt})
			}
		}
	}

	s.logger.Info("[locamoi] Total (city, property type) combinations: %d", len(tasks))

	for _, task := range tasks {
		task := task
		s.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("[locamoi] Task %s (%s) / %s aborted: %v",
						task.City, task.Region, task.Type.Key, r)
					s.mu.Lock()
					s.failedTasks++
					s.mu.Unlock()
				}
			}()

			found := s.scrapeTask(task)

			s.mu.Lock()
			s.listings = append(s.listings, found...)
			s.mu.Unlock()

			s.logger.Info("[locamoi] Done: %s (%s) / %s -> %d listings",
				task.City, task.Region, task.Type.Key, len(found))
		})
	}
	s.pool.Wait()

	s.logger.Info("[locamoi] Scrape complete — total raw listings: %d", len(s.listings))
	return s.listings, s.failedTasks
}

// scrapeTask walks one feed's pages in order. Pagination stops on the first
// failed fetch (network assumed broken for this feed), on the first page
// without a matching listing (end of results), or at the page cap. All three
// are normal terminations: the task returns whatever it accumulated.
func (s *Scraper) scrapeTask(task Task) []*models.Listing {
	citySlug := gazetteer.CitySlug(task.City)

	var all []*models.Listing
	for page := 1; page <= s.cfg.MaxPages; page++ {
		pageURL := buildSearchURL(s.cfg.BaseURL, citySlug, task.Type.Slug, page)
		s.logger.Info("[locamoi] %s (%s) - %s - page %d -> %s",
			task.City, task.Region, task.Type.Key, page, pageURL)

		body, ok := s.fetcher.FetchPage(pageURL)
		if !ok {
			break
		}

		found := extractListings(body, s.cfg.BaseURL, task, page)
		if len(found) == 0 {
			if page == 1 {
				s.logger.Info("[locamoi] 0 listings for %s / %s", task.City, task.Type.Key)
			}
			break
		}

		s.logger.Info("[locamoi] %d listings found for %s (page %d, type=%s)",
			len(found), task.City, page, task.Type.Label)
		all = append(all, found...)
	}

	return all
}
