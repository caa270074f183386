package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/books"
)

// ResourceType is the payload key a Books inventory event arrives under.
type ResourceType string

const (
	ResourceSalesOrder          ResourceType = "salesorder"
	ResourcePurchaseReceive     ResourceType = "purchasereceive"
	ResourceInventoryAdjustment ResourceType = "inventory_adjustment"
	ResourceVendorCredit        ResourceType = "vendor_credit"
	ResourceCreditNote          ResourceType = "creditnote"
)

// ResourceTypes lists every resource type in dispatch order.
var ResourceTypes = []ResourceType{
	ResourceSalesOrder,
	ResourcePurchaseReceive,
	ResourceInventoryAdjustment,
	ResourceVendorCredit,
	ResourceCreditNote,
}

type WebhookLineItem struct {
	ItemID string `json:"item_id"`
	SKU    string `json:"sku,omitempty"`
}

type WebhookResource struct {
	LineItems []WebhookLineItem `json:"line_items"`
}

// WebhookPayload holds the resources of one inbound event, keyed by resource type.
// Unknown keys are ignored.
type WebhookPayload map[ResourceType]WebhookResource

func (p *WebhookPayload) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(WebhookPayload)
	for _, rt := range ResourceTypes {
		v, ok := raw[string(rt)]
		if !ok || len(v) == 0 || string(v) == "null" {
			continue
		}
		var res WebhookResource
		if err := json.Unmarshal(v, &res); err != nil {
			return errors.Wrapf(err, "resource %s", rt)
		}
		out[rt] = res
	}
	*p = out
	return nil
}

func DecodeWebhookPayload(b []byte) (WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return p, nil
}

type StrategyStatus string

const (
	StrategyOK      StrategyStatus = "ok"
	StrategySkipped StrategyStatus = "skipped"
	// StrategyPartial means some SKUs failed to push or had no location mapping. The failures are in the
	// report and do not fail the webhook.
	StrategyPartial StrategyStatus = "partial"
	StrategyFailed  StrategyStatus = "failed"
)

type StrategyResult struct {
	Resource ResourceType   `json:"resource"`
	Status   StrategyStatus `json:"status"`
	Items    int            `json:"items"`
	Report   PushReport     `json:"report"`
	Error    string         `json:"error,omitempty"`
}

type WebhookResult struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Results   []StrategyResult `json:"results,omitempty"`
}

type ItemDetailsFetcher interface {
	GetItemDetails(ctx context.Context, itemIDs []string) ([]books.Item, error)
}

// StockStrategy is the shared stock reconciliation routine, bound to the payload key it reads.
type StockStrategy struct {
	Resource   ResourceType
	Warehouses []string

	books  ItemDetailsFetcher
	pusher *StockPusher
}

func (s StockStrategy) ItemIDs(p WebhookPayload) []string {
	res, ok := p[s.Resource]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(res.LineItems))
	for _, li := range res.LineItems {
		ids = append(ids, li.ItemID)
	}
	return books.UniqueIDs(ids)
}

func (s StockStrategy) Execute(ctx context.Context, p WebhookPayload) StrategyResult {
	out := StrategyResult{Resource: s.Resource, Status: StrategyOK}
	log := logrus.WithField("resource", s.Resource)

	ids := s.ItemIDs(p)
	if len(ids) == 0 {
		out.Status = StrategySkipped
		return out
	}

	items, err := s.books.GetItemDetails(ctx, ids)
	if err != nil {
		log.WithError(err).Error("fetch item details")
		out.Status = StrategyFailed
		out.Error = trimErr(err)
		return out
	}

	updates := BuildStockUpdates(items, s.Warehouses)
	out.Items = len(updates)
	out.Report = s.pusher.PushEach(ctx, updates)

	switch {
	case len(out.Report.Failed) > 0:
		out.Status = StrategyPartial
		out.Error = fmt.Sprintf("%d of %d stock updates failed", len(out.Report.Failed), len(updates))
	case len(out.Report.Succeeded) == 0 && len(out.Report.Skipped) > 0:
		out.Status = StrategySkipped
	}

	log.WithFields(logrus.Fields{
		"updates":   len(updates),
		"succeeded": len(out.Report.Succeeded),
		"skipped":   len(out.Report.Skipped),
		"failed":    len(out.Report.Failed),
	}).Info("stock strategy done")
	return out
}

// WebhookService fans one inbound payload out to a strategy per resource type.
type WebhookService struct {
	strategies []StockStrategy
}

func NewWebhookService(fetcher ItemDetailsFetcher, pusher *StockPusher, warehouses []string) *WebhookService {
	ws := &WebhookService{}
	for _, rt := range ResourceTypes {
		ws.strategies = append(ws.strategies, StockStrategy{
			Resource:   rt,
			Warehouses: warehouses,
			books:      fetcher,
			pusher:     pusher,
		})
	}
	return ws
}

// Dispatch runs every strategy whose resource is present in the payload concurrently. Strategies do not
// cancel each other. The call fails only when a strategy could not fetch its items; per-SKU failures stay
// in the strategy reports.
func (w *WebhookService) Dispatch(ctx context.Context, p WebhookPayload) (WebhookResult, error) {
	res := WebhookResult{Timestamp: time.Now().UTC()}

	var active []StockStrategy
	for _, s := range w.strategies {
		if r, ok := p[s.Resource]; ok && len(r.LineItems) > 0 {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		res.Success = true
		res.Message = "No processing required"
		return res, nil
	}

	results := make([]StrategyResult, len(active))
	var wg sync.WaitGroup
	for i, s := range active {
		wg.Add(1)
		go func(i int, s StockStrategy) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("resource", s.Resource).Errorf("strategy panic: %v", r)
					results[i] = StrategyResult{Resource: s.Resource, Status: StrategyFailed, Error: fmt.Sprint(r)}
				}
			}()
			results[i] = s.Execute(ctx, p)
		}(i, s)
	}
	wg.Wait()

	res.Results = results
	var failed []string
	for _, r := range results {
		webhookDispatches.WithLabelValues(string(r.Resource), string(r.Status)).Inc()
		if r.Status == StrategyFailed {
			failed = append(failed, string(r.Resource))
		}
	}
	if len(failed) > 0 {
		res.Message = "failed: " + strings.Join(failed, ", ")
		return res, errors.Wrapf(ErrWebhookFailed, "%s", strings.Join(failed, ", "))
	}
	res.Success = true
	res.Message = fmt.Sprintf("processed %d resource(s)", len(results))
	return res, nil
}
