package geocode

import (
	"sort"
	"strings"
	"sync"

	"locamoi-scraper/models"
	"locamoi-scraper/utils"
)

// Geocoder resolves one address to coordinates. Satisfied by *Client; tests
// substitute a fake.
type Geocoder interface {
	Forward(address string) (models.Coordinates, bool)
}

// Resolver geocodes the distinct addresses of a dataset under a bounded
// worker pool and maps the results back onto every record. Each distinct
// address costs at most one external call, however many records share it.
type Resolver struct {
	geocoder    Geocoder
	logger      *utils.Logger
	concurrency int
	delayMs     int
}

// NewResolver creates a Resolver with the given pool size and optional
// courtesy delay between calls.
func NewResolver(geocoder Geocoder, logger *utils.Logger, concurrency, delayMs int) *Resolver {
	return &Resolver{
		geocoder:    geocoder,
		logger:      logger,
		concurrency: concurrency,
		delayMs:     delayMs,
	}
}

// table maps a normalized address to its resolved coordinates. Each key is
// written exactly once, by the single worker that owns that address;
// afterwards the table is read-only.
type table struct {
	mu     sync.Mutex
	coords map[string]*models.Coordinates
}

func newTable() *table {
	return &table{coords: make(map[string]*models.Coordinates)}
}

// put stores the result for addr; nil marks the address unresolved.
func (t *table) put(addr string, c *models.Coordinates) {
	t.mu.Lock()
	t.coords[addr] = c
	t.mu.Unlock()
}

func (t *table) get(addr string) *models.Coordinates {
	return t.coords[addr]
}

// Annotate attaches Lat/Lon to every listing. Addresses are normalized by
// trimming whitespace; empty ones receive nil coordinates without an external
// call. Unresolved addresses also map to nil — geocoding never drops a
// record and never fails a run.
func (r *Resolver) Annotate(listings []*models.Listing) []*models.Listing {
	distinct := make(map[string]struct{})
	for _, l := range listings {
		if l.Address == nil {
			continue
		}
		if addr := strings.TrimSpace(*l.Address); addr != "" {
			distinct[addr] = struct{}{}
		}
	}

	addrs := make([]string, 0, len(distinct))
	for addr := range distinct {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	r.logger.Info("[geocode] Resolving %d distinct addresses for %d listings",
		len(addrs), len(listings))

	results := newTable()
	pool := utils.NewWorkerPool(r.concurrency, r.delayMs)
	for _, addr := range addrs {
		addr := addr
		pool.Submit(func() {
			if coords, ok := r.geocoder.Forward(addr); ok {
				results.put(addr, &coords)
			} else {
				results.put(addr, nil)
			}
		})
	}
	pool.Wait()

	resolved := 0
	for _, c := range results.coords {
		if c != nil {
			resolved++
		}
	}
	r.logger.Info("[geocode] Resolved %d/%d addresses", resolved, len(addrs))

	for _, l := range listings {
		if l.Address == nil {
			continue
		}
		addr := strings.TrimSpace(*l.Address)
		if addr == "" {
			continue
		}
		if coords := results.get(addr); coords != nil {
			l.Lat = models.Float64(coords.Lat)
			l.Lon = models.Float64(coords.Lon)
		}
	}
	return listings
}
