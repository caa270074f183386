package service

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
)

type StockSetter interface {
	SetStockLevel(ctx context.Context, levels []oms.StockLevel) error
}

type SKUFailure struct {
	SKU             string `json:"sku"`
	BooksLocationID string `json:"booksLocationId"`
	Error           string `json:"error"`
}

// PushReport tracks the outcome of every stock figure independently.
type PushReport struct {
	Succeeded []string     `json:"succeeded"`
	Skipped   []string     `json:"skipped,omitempty"`
	Failed    []SKUFailure `json:"failed,omitempty"`
}

func (r *PushReport) merge(o PushReport) {
	r.Succeeded = append(r.Succeeded, o.Succeeded...)
	r.Skipped = append(r.Skipped, o.Skipped...)
	r.Failed = append(r.Failed, o.Failed...)
}

// StockPusher resolves the OMS location of each stock figure and pushes it.
type StockPusher struct {
	oms       StockSetter
	locations *LocationService
	events    EventPublisher
}

func NewStockPusher(setter StockSetter, locations *LocationService, events EventPublisher) *StockPusher {
	return &StockPusher{oms: setter, locations: locations, events: events}
}

// BuildStockUpdates emits one figure per (item, target warehouse) pair, read from the warehouse's
// actual available-for-sale stock. Items without a SKU or without the warehouse are left out.
func BuildStockUpdates(items []books.Item, warehouses []string) []models.StockUpdateItem {
	var out []models.StockUpdateItem
	for _, it := range items {
		if it.SKU == "" {
			logrus.WithField("item_id", it.ItemID).Debug("books item has no sku, skipped")
			continue
		}
		for _, wid := range warehouses {
			for _, loc := range it.Locations {
				if loc.LocationID != wid {
					continue
				}
				out = append(out, models.StockUpdateItem{
					SKU:               it.SKU,
					ItemID:            it.ItemID,
					Quantity:          int(math.Floor(loc.ActualAvailableForSaleStock)),
					BooksLocationID:   loc.LocationID,
					BooksLocationName: loc.LocationName,
				})
				break
			}
		}
	}
	return out
}

// PushEach pushes every figure on its own so a failure is attributed to one SKU only.
// A SKU unknown to the OMS is recorded as skipped, not failed.
func (p *StockPusher) PushEach(ctx context.Context, items []models.StockUpdateItem) PushReport {
	var rep PushReport
	for _, it := range items {
		if ctx.Err() != nil {
			rep.Failed = append(rep.Failed, SKUFailure{SKU: it.SKU, BooksLocationID: it.BooksLocationID, Error: ctx.Err().Error()})
			continue
		}
		rep.merge(p.pushOne(ctx, it))
	}
	return rep
}

func (p *StockPusher) pushOne(ctx context.Context, it models.StockUpdateItem) PushReport {
	log := logrus.WithFields(logrus.Fields{"sku": it.SKU, "books_location": it.BooksLocationID})

	m, err := p.locations.Resolve(ctx, it.BooksLocationID, it.BooksLocationName)
	if err != nil {
		stockPushes.WithLabelValues("unmapped").Inc()
		return PushReport{Failed: []SKUFailure{{SKU: it.SKU, BooksLocationID: it.BooksLocationID, Error: err.Error()}}}
	}

	level := oms.StockLevel{SKU: it.SKU, LocationID: m.OMSLocationID, Level: it.Quantity}
	err = p.oms.SetStockLevel(ctx, []oms.StockLevel{level})
	switch {
	case errors.Is(err, oms.ErrSKUNotFound):
		stockPushes.WithLabelValues("sku_not_found").Inc()
		log.Info("sku unknown to oms, skipped")
		return PushReport{Skipped: []string{it.SKU}}
	case err != nil:
		stockPushes.WithLabelValues("failed").Inc()
		log.WithError(err).Warn("stock push failed")
		return PushReport{Failed: []SKUFailure{{SKU: it.SKU, BooksLocationID: it.BooksLocationID, Error: err.Error()}}}
	}

	stockPushes.WithLabelValues("ok").Inc()
	log.WithField("level", it.Quantity).Debug("stock updated")
	p.published(ctx, level)
	return PushReport{Succeeded: []string{it.SKU}}
}

// PushBatched resolves every figure first and pushes the resolved ones in chunks. A failed chunk is
// retried item by item to isolate the offending SKU.
func (p *StockPusher) PushBatched(ctx context.Context, items []models.StockUpdateItem, chunk int) PushReport {
	if chunk <= 0 {
		chunk = 50
	}
	var rep PushReport
	resolved := make([]models.StockUpdateItem, 0, len(items))
	levels := make([]oms.StockLevel, 0, len(items))
	for _, it := range items {
		m, err := p.locations.Resolve(ctx, it.BooksLocationID, it.BooksLocationName)
		if err != nil {
			stockPushes.WithLabelValues("unmapped").Inc()
			rep.Failed = append(rep.Failed, SKUFailure{SKU: it.SKU, BooksLocationID: it.BooksLocationID, Error: err.Error()})
			continue
		}
		resolved = append(resolved, it)
		levels = append(levels, oms.StockLevel{SKU: it.SKU, LocationID: m.OMSLocationID, Level: it.Quantity})
	}

	for start := 0; start < len(levels); start += chunk {
		end := start + chunk
		if end > len(levels) {
			end = len(levels)
		}
		if err := p.oms.SetStockLevel(ctx, levels[start:end]); err != nil {
			logrus.WithError(err).WithField("chunk", start/chunk).Warn("stock chunk failed, pushing items one by one")
			rep.merge(p.PushEach(ctx, resolved[start:end]))
			continue
		}
		for _, l := range levels[start:end] {
			stockPushes.WithLabelValues("ok").Inc()
			rep.Succeeded = append(rep.Succeeded, l.SKU)
			p.published(ctx, l)
		}
	}
	return rep
}

func (p *StockPusher) published(ctx context.Context, l oms.StockLevel) {
	ev := NewEvent(EventStockPushed)
	ev.SKU = l.SKU
	ev.LocationID = l.LocationID
	level := l.Level
	if level < 0 {
		level = 0
	}
	ev.Level = &level
	publish(ctx, p.events, ev)
}
