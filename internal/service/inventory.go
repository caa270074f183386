package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/oms"
)

type StockItemLister interface {
	GetStockItems(ctx context.Context, page, perPage int) ([]oms.StockItem, error)
}

type InventoryResult struct {
	Pages      int           `json:"pages"`
	StockItems int           `json:"stockItems"`
	Linked     int           `json:"linked"`
	Fetched    int           `json:"fetched"`
	Updates    int           `json:"updates"`
	Report     PushReport    `json:"report"`
	Duration   time.Duration `json:"duration"`
}

// InventorySync reconciles the whole OMS catalogue against Books stock. An OMS stock item is linked to
// its Books item through the barcode field.
type InventorySync struct {
	oms        StockItemLister
	books      ItemDetailsFetcher
	pusher     *StockPusher
	warehouses []string
	pageSize   int
	pushBatch  int
}

func NewInventorySync(lister StockItemLister, fetcher ItemDetailsFetcher, pusher *StockPusher, opts Options) *InventorySync {
	ps := opts.InventoryPageSize
	if ps <= 0 {
		ps = 200
	}
	return &InventorySync{
		oms:        lister,
		books:      fetcher,
		pusher:     pusher,
		warehouses: opts.TargetWarehouses,
		pageSize:   ps,
		pushBatch:  opts.InventoryPushBatch,
	}
}

func (s *InventorySync) Run(ctx context.Context) (InventoryResult, error) {
	start := time.Now()
	var res InventoryResult

	var ids []string
	for page := 1; ; page++ {
		items, err := s.oms.GetStockItems(ctx, page, s.pageSize)
		if err != nil {
			return res, errors.Wrapf(err, "list stock items page %d", page)
		}
		res.Pages++
		res.StockItems += len(items)
		for _, it := range items {
			if b := strings.TrimSpace(it.BarcodeNumber); b != "" {
				ids = append(ids, b)
			}
		}
		if len(items) < s.pageSize {
			break
		}
	}
	res.Linked = len(ids)
	if len(ids) == 0 {
		res.Duration = time.Since(start)
		return res, nil
	}

	details, err := s.books.GetItemDetails(ctx, ids)
	if err != nil {
		return res, errors.Wrap(err, "fetch books item details")
	}
	res.Fetched = len(details)

	updates := BuildStockUpdates(details, s.warehouses)
	res.Updates = len(updates)
	res.Report = s.pusher.PushBatched(ctx, updates, s.pushBatch)
	res.Duration = time.Since(start)

	logrus.WithFields(logrus.Fields{
		"stock_items": res.StockItems,
		"linked":      res.Linked,
		"updates":     res.Updates,
		"succeeded":   len(res.Report.Succeeded),
		"skipped":     len(res.Report.Skipped),
		"failed":      len(res.Report.Failed),
	}).Info("inventory sync done")
	return res, nil
}
