package postgres

import (
	"database/sql"
	"time"

	"oms-books-sync/internal/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

const idChunk = 500

type OrderPostgresRepo struct {
	db *gorm.DB
}

func NewOrderPostgres(db *gorm.DB) *OrderPostgresRepo {
	return &OrderPostgresRepo{db: db}
}

// InsertIfAbsent stores every order whose id is not stored yet and returns the ids it inserted.
// Stored orders are never touched. Each order is its own transaction, so a failed row does not stop
// the rest; failures come back keyed by order id.
func (r *OrderPostgresRepo) InsertIfAbsent(orders []models.Order) ([]string, map[string]error) {
	saved := make([]string, 0, len(orders))
	var failed map[string]error
	for _, o := range orders {
		ok, err := r.insertOne(o)
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[o.OrderID] = errors.Wrapf(err, "insert order %s", o.OrderID)
			continue
		}
		if ok {
			saved = append(saved, o.OrderID)
		}
	}
	return saved, failed
}

func (r *OrderPostgresRepo) insertOne(o models.Order) (bool, error) {
	items := o.Items
	o.Items = nil
	if o.SyncStatus == "" {
		o.SyncStatus = models.SyncPending
	}

	inserted := false
	err := r.db.
		Set("gorm:association_autocreate", false).
		Set("gorm:association_autoupdate", false).
		Transaction(func(tx *gorm.DB) error {
			var count int
			if err := tx.Model(&models.Order{}).Where("order_id = ?", o.OrderID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}

			// postgres reports a conflicting insert as an empty RETURNING set
			err := tx.Set("gorm:insert_option", "ON CONFLICT (order_id) DO NOTHING").Create(&o).Error
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return nil
			case err != nil:
				return err
			}

			for i := range items {
				items[i].ID = 0
				items[i].OrderRefer = o.OrderID
				if err := tx.Create(&items[i]).Error; err != nil {
					return err
				}
			}
			inserted = true
			return nil
		})
	return inserted, err
}

func (r *OrderPostgresRepo) ExistingIDs(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for start := 0; start < len(ids); start += idChunk {
		end := start + idChunk
		if end > len(ids) {
			end = len(ids)
		}
		var chunk []string
		if err := r.db.Model(&models.Order{}).
			Where("order_id IN (?)", ids[start:end]).
			Pluck("order_id", &chunk).Error; err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (r *OrderPostgresRepo) Get(id string) (models.Order, error) {
	var o models.Order
	q := r.db.Preload("Items").
		Where("order_id = ?", id).
		First(&o)
	return o, q.Error
}

func (r *OrderPostgresRepo) FindByRemoteInvoiceID(remoteID string) (models.Order, error) {
	var o models.Order
	q := r.db.Preload("Items").
		Where("remote_invoice_id = ?", remoteID).
		First(&o)
	return o, q.Error
}

// ListSyncable returns pending orders and failed orders still under the retry ceiling, oldest first.
func (r *OrderPostgresRepo) ListSyncable(maxRetries, limit int) ([]models.Order, error) {
	var out []models.Order
	q := r.db.Preload("Items").
		Where("sync_status = ? OR (sync_status = ? AND sync_retries < ?)",
			models.SyncPending, models.SyncFailed, maxRetries).
		Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *OrderPostgresRepo) ListByStatus(status models.SyncStatus, limit int) ([]models.Order, error) {
	var out []models.Order
	q := r.db.Preload("Items").Order("created_at asc")
	if status != "" {
		q = q.Where("sync_status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}

func (r *OrderPostgresRepo) SetRemoteInvoiceID(id, remoteID string) error {
	return r.update(id, map[string]interface{}{"remote_invoice_id": remoteID})
}

func (r *OrderPostgresRepo) MarkSynced(id string) error {
	return r.update(id, map[string]interface{}{
		"sync_status":    models.SyncSynced,
		"sync_error":     "",
		"last_synced_at": time.Now().UTC(),
	})
}

func (r *OrderPostgresRepo) MarkFailed(id, reason string) error {
	return r.update(id, map[string]interface{}{
		"sync_status":  models.SyncFailed,
		"sync_error":   reason,
		"sync_retries": gorm.Expr("sync_retries + 1"),
	})
}

func (r *OrderPostgresRepo) ResetForRetry(id string) error {
	return r.update(id, map[string]interface{}{
		"sync_status":  models.SyncPending,
		"sync_error":   "",
		"sync_retries": 0,
	})
}

func (r *OrderPostgresRepo) MarkShipped(id, trackingNumber string, processed bool) error {
	return r.update(id, map[string]interface{}{
		"shipping_tracking_number": trackingNumber,
		"processed":                processed,
	})
}

func (r *OrderPostgresRepo) update(id string, fields map[string]interface{}) error {
	q := r.db.Model(&models.Order{}).
		Where("order_id = ?", id).
		Updates(fields)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
