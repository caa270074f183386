package repository

import (
	"context"
	"time"

	"oms-books-sync/internal/models"
	"oms-books-sync/internal/repository/postgres"

	"github.com/jinzhu/gorm"
)

type Orders interface {
	// InsertIfAbsent reports the ids it inserted and, per order id, the inserts that failed.
	InsertIfAbsent(orders []models.Order) (saved []string, failed map[string]error)
	ExistingIDs(ids []string) ([]string, error)
	Get(id string) (models.Order, error)
	FindByRemoteInvoiceID(remoteID string) (models.Order, error)
	ListSyncable(maxRetries, limit int) ([]models.Order, error)
	ListByStatus(status models.SyncStatus, limit int) ([]models.Order, error)
	SetRemoteInvoiceID(id, remoteID string) error
	MarkSynced(id string) error
	MarkFailed(id, reason string) error
	ResetForRetry(id string) error
	MarkShipped(id, trackingNumber string, processed bool) error
}

type LocationMappings interface {
	Upsert(m models.LocationMapping) (models.LocationMapping, error)
	Get(booksLocationID string) (models.LocationMapping, error)
	FindByOMSLocationID(omsLocationID string) (models.LocationMapping, error)
	List() ([]models.LocationMapping, error)
}

// TokenStore is a shared keyed store with per-key expiry.
type TokenStore interface {
	Get(ctx context.Context, key string) (value string, ttl time.Duration, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Repository struct {
	Orders
	LocationMappings
	Tokens TokenStore
}

func NewRepository(db *gorm.DB, tokens TokenStore) *Repository {
	return &Repository{
		Orders:           postgres.NewOrderPostgres(db),
		LocationMappings: postgres.NewLocationMappingPostgres(db),
		Tokens:           tokens,
	}
}
