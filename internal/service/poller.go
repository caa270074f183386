package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/models"
	"oms-books-sync/internal/repository"
)

type OpenOrderSource interface {
	GetAllOpenOrderIDs(ctx context.Context, locationID string) ([]string, error)
	GetOpenOrderDetails(ctx context.Context, ids []string) ([]models.Order, error)
}

type PollResult struct {
	CycleID            string        `json:"cycleId"`
	TotalOpenOrders    int           `json:"totalOpenOrders"`
	NewOrders          int           `json:"newOrders"`
	ReadyOrders        int           `json:"readyOrders"`
	SkippedEmptyOrders int           `json:"skippedEmptyOrders"`
	SavedOrders        int           `json:"savedOrders"`
	FailedBatches      int           `json:"failedBatches"`
	FailedSaves        int           `json:"failedSaves"`
	Duration           time.Duration `json:"duration"`
}

// OrderProcessor moves new OMS open orders into the local store.
type OrderProcessor struct {
	oms        OpenOrderSource
	orders     repository.Orders
	events     EventPublisher
	locationID string
	batchSize  int
}

func NewOrderProcessor(src OpenOrderSource, orders repository.Orders, events EventPublisher, opts Options) *OrderProcessor {
	bs := opts.BatchSize
	if bs <= 0 {
		bs = 50
	}
	return &OrderProcessor{oms: src, orders: orders, events: events, locationID: opts.DefaultLocationID, batchSize: bs}
}

func (p *OrderProcessor) ProcessOpenOrders(ctx context.Context) (PollResult, error) {
	start := time.Now()
	res := PollResult{CycleID: uuid.NewString()}
	log := logrus.WithField("cycle", res.CycleID)

	ids, err := p.oms.GetAllOpenOrderIDs(ctx, p.locationID)
	if err != nil {
		pollCycles.WithLabelValues("failed").Inc()
		return res, errors.Wrap(err, "fetch open order ids")
	}
	res.TotalOpenOrders = len(ids)

	fresh, err := p.newIDs(ids)
	if err != nil {
		pollCycles.WithLabelValues("failed").Inc()
		return res, err
	}
	res.NewOrders = len(fresh)
	if len(fresh) == 0 {
		res.Duration = time.Since(start)
		pollCycles.WithLabelValues("ok").Inc()
		log.WithField("open", res.TotalOpenOrders).Debug("no new orders")
		return res, nil
	}

	details, failed := p.FetchDetails(ctx, fresh)
	res.FailedBatches = failed

	ready := make([]models.Order, 0, len(details))
	for _, o := range details {
		if !o.IsReady() {
			res.SkippedEmptyOrders++
			log.WithField("order", o.OrderID).Debug("order not ready, skipped")
			continue
		}
		o.SyncStatus = models.SyncPending
		o.SyncRetries = 0
		ready = append(ready, o)
	}
	res.ReadyOrders = len(ready)

	saved, failedSaves := p.orders.InsertIfAbsent(ready)
	res.SavedOrders = len(saved)
	res.FailedSaves = len(failedSaves)
	for id, err := range failedSaves {
		log.WithError(err).WithField("order", id).Error("save order")
	}
	ordersSaved.Add(float64(len(saved)))
	for _, id := range saved {
		ev := NewEvent(EventOrderSaved)
		ev.OrderID = id
		publish(ctx, p.events, ev)
	}
	res.Duration = time.Since(start)

	if res.FailedSaves > 0 || res.FailedBatches > 0 {
		pollCycles.WithLabelValues("partial").Inc()
	} else {
		pollCycles.WithLabelValues("ok").Inc()
	}
	log.WithFields(logrus.Fields{
		"open":           res.TotalOpenOrders,
		"new":            res.NewOrders,
		"ready":          res.ReadyOrders,
		"skipped":        res.SkippedEmptyOrders,
		"saved":          res.SavedOrders,
		"failed_batches": res.FailedBatches,
		"failed_saves":   res.FailedSaves,
	}).Info("poll cycle done")
	return res, nil
}

func (p *OrderProcessor) newIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	existing, err := p.orders.ExistingIDs(ids)
	if err != nil {
		return nil, errors.Wrap(err, "load stored order ids")
	}
	seen := make(map[string]struct{}, len(existing)+len(ids))
	for _, id := range existing {
		seen[id] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// FetchDetails loads order details batch by batch. A failed batch is logged and counted; the
// others still contribute their orders.
func (p *OrderProcessor) FetchDetails(ctx context.Context, ids []string) ([]models.Order, int) {
	var (
		out    []models.Order
		failed int
	)
	for start := 0; start < len(ids); start += p.batchSize {
		end := start + p.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := p.oms.GetOpenOrderDetails(ctx, ids[start:end])
		if err != nil {
			failed++
			logrus.WithError(err).WithFields(logrus.Fields{
				"batch": start / p.batchSize,
				"size":  end - start,
			}).Error("fetch order details batch")
			continue
		}
		out = append(out, batch...)
	}
	return out, failed
}
