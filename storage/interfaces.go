package storage

import "locamoi-scraper/models"

// DatasetWriter is the interface any dataset sink must satisfy.
type DatasetWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
