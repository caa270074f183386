package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
	svc "oms-books-sync/internal/service"
)

func booksItem(id, sku string, stock float64) books.Item {
	return books.Item{
		ItemID: id,
		SKU:    sku,
		Locations: []books.Location{
			{LocationID: "wh-1", LocationName: "Main", ActualAvailableForSaleStock: stock},
			{LocationID: "wh-other", LocationName: "Other", ActualAvailableForSaleStock: 99},
		},
	}
}

func webhookFixture() *fixture {
	f := newFixture(svc.Options{TargetWarehouses: []string{"wh-1"}})
	f.mappings.m["wh-1"] = models.LocationMapping{BooksLocationID: "wh-1", BooksLocationName: "Main", OMSLocationID: "oms-1"}
	f.books.itemDetails = func(_ context.Context, ids []string) ([]books.Item, error) {
		out := make([]books.Item, 0, len(ids))
		for _, id := range ids {
			out = append(out, booksItem(id, "SKU-"+id, 4.7))
		}
		return out, nil
	}
	return f
}

func TestDispatch_FailureInOneStrategyDoesNotStopOthers(t *testing.T) {
	f := webhookFixture()
	f.oms.setStock = func(_ context.Context, levels []oms.StockLevel) error {
		switch levels[0].SKU {
		case "SKU-broken":
			return errors.New("oms 500")
		case "SKU-unknown":
			return &oms.SKUNotFoundError{SKU: "SKU-unknown"}
		}
		return nil
	}

	payload := svc.WebhookPayload{
		svc.ResourceSalesOrder:      {LineItems: []svc.WebhookLineItem{{ItemID: "ok"}}},
		svc.ResourcePurchaseReceive: {LineItems: []svc.WebhookLineItem{{ItemID: "broken"}}},
		svc.ResourceCreditNote:      {LineItems: []svc.WebhookLineItem{{ItemID: "unknown"}}},
		svc.ResourceVendorCredit:    {LineItems: []svc.WebhookLineItem{{ItemID: "ok2"}, {ItemID: "ok2"}, {ItemID: " "}}},
	}

	res, err := f.svc.HandleStockWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Results, 4)

	byResource := map[svc.ResourceType]svc.StrategyResult{}
	for _, r := range res.Results {
		byResource[r.Resource] = r
	}
	require.Equal(t, svc.StrategyOK, byResource[svc.ResourceSalesOrder].Status)
	require.Equal(t, svc.StrategyPartial, byResource[svc.ResourcePurchaseReceive].Status)
	require.Equal(t, "SKU-broken", byResource[svc.ResourcePurchaseReceive].Report.Failed[0].SKU)
	require.Equal(t, svc.StrategySkipped, byResource[svc.ResourceCreditNote].Status)
	require.Equal(t, svc.StrategyOK, byResource[svc.ResourceVendorCredit].Status)
	require.Equal(t, 1, byResource[svc.ResourceVendorCredit].Items)

	require.Equal(t, []string{"SKU-ok", "SKU-ok2"}, f.oms.pushedSKUs())
	for _, l := range f.oms.pushed {
		require.Equal(t, "oms-1", l.LocationID)
		require.Equal(t, 4, l.Level)
	}
}

func TestDispatch_OnlySKUNotFoundIsSuccess(t *testing.T) {
	f := webhookFixture()
	f.oms.setStock = func(_ context.Context, levels []oms.StockLevel) error {
		return &oms.SKUNotFoundError{SKU: levels[0].SKU}
	}

	res, err := f.svc.HandleStockWebhook(context.Background(), svc.WebhookPayload{
		svc.ResourceInventoryAdjustment: {LineItems: []svc.WebhookLineItem{{ItemID: "a"}}},
		svc.ResourceSalesOrder:          {LineItems: []svc.WebhookLineItem{{ItemID: "b"}}},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
}

func TestDispatch_MissingMappingSkipsOnlyThatItem(t *testing.T) {
	f := newFixture(svc.Options{TargetWarehouses: []string{"wh-1", "wh-2"}})
	f.mappings.m["wh-1"] = models.LocationMapping{BooksLocationID: "wh-1", OMSLocationID: "oms-1"}
	f.books.itemDetails = func(context.Context, []string) ([]books.Item, error) {
		return []books.Item{{
			ItemID: "i",
			SKU:    "S",
			Locations: []books.Location{
				{LocationID: "wh-1", ActualAvailableForSaleStock: 2},
				{LocationID: "wh-2", LocationName: "Second", ActualAvailableForSaleStock: 3},
			},
		}}, nil
	}
	payload := svc.WebhookPayload{
		svc.ResourceSalesOrder: {LineItems: []svc.WebhookLineItem{{ItemID: "i"}}},
	}

	res, err := f.svc.HandleStockWebhook(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, svc.StrategyPartial, res.Results[0].Status)
	rep := res.Results[0].Report
	require.Equal(t, []string{"S"}, rep.Succeeded)
	require.Len(t, rep.Failed, 1)
	require.Equal(t, "wh-2", rep.Failed[0].BooksLocationID)
	require.Equal(t, []string{"S"}, f.oms.pushedSKUs())

	// the queued message must not be retried either
	body := []byte(`{"salesorder": {"line_items": [{"item_id": "i"}]}}`)
	require.NoError(t, f.svc.HandleWebhookMessage(context.Background(), body))
}

func TestDispatch_NothingToDo(t *testing.T) {
	f := webhookFixture()
	res, err := f.svc.HandleStockWebhook(context.Background(), svc.WebhookPayload{
		svc.ResourceSalesOrder: {},
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "No processing required", res.Message)
}

func TestDispatch_DetailFetchFailure(t *testing.T) {
	f := webhookFixture()
	f.books.itemDetails = func(context.Context, []string) ([]books.Item, error) {
		return nil, errors.New("books unavailable")
	}
	res, err := f.svc.HandleStockWebhook(context.Background(), svc.WebhookPayload{
		svc.ResourceSalesOrder: {LineItems: []svc.WebhookLineItem{{ItemID: "a"}}},
	})
	require.Error(t, err)
	require.Equal(t, svc.StrategyFailed, res.Results[0].Status)
	require.Contains(t, res.Results[0].Error, "books unavailable")
}

func TestDecodeWebhookPayload(t *testing.T) {
	p, err := svc.DecodeWebhookPayload([]byte(`{
		"salesorder": {"line_items": [{"item_id": "1", "sku": "A"}]},
		"creditnote": null,
		"contact": {"contact_id": "x"}
	}`))
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.Equal(t, "1", p[svc.ResourceSalesOrder].LineItems[0].ItemID)

	_, err = svc.DecodeWebhookPayload([]byte(`{"salesorder": 5}`))
	require.ErrorIs(t, err, svc.ErrDecode)

	_, err = svc.DecodeWebhookPayload([]byte(`nope`))
	require.ErrorIs(t, err, svc.ErrDecode)
}

func TestHandleWebhookMessage(t *testing.T) {
	f := webhookFixture()
	require.NoError(t, f.svc.HandleWebhookMessage(context.Background(),
		[]byte(`{"inventory_adjustment": {"line_items": [{"item_id": "z"}]}}`)))
	require.Equal(t, []string{"SKU-z"}, f.oms.pushedSKUs())
	require.Contains(t, f.events.types(), svc.EventStockPushed)
}

func TestBuildStockUpdates(t *testing.T) {
	items := []books.Item{
		booksItem("1", "A", 3.9),
		{ItemID: "2", Locations: []books.Location{{LocationID: "wh-1", ActualAvailableForSaleStock: 1}}},
		{ItemID: "3", SKU: "C", Locations: []books.Location{{LocationID: "wh-1", ActualAvailableForSaleStock: -2.5}}},
	}
	got := svc.BuildStockUpdates(items, []string{"wh-1", "wh-missing"})
	require.Equal(t, []models.StockUpdateItem{
		{SKU: "A", ItemID: "1", Quantity: 3, BooksLocationID: "wh-1", BooksLocationName: "Main"},
		{SKU: "C", ItemID: "3", Quantity: -3, BooksLocationID: "wh-1"},
	}, got)
}
