package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
	"oms-books-sync/internal/repository"
	svc "oms-books-sync/internal/service"
)

type ordersStub struct {
	mu sync.Mutex
	m  map[string]models.Order

	insertFail map[string]error
}

var _ repository.Orders = (*ordersStub)(nil)

func newOrdersStub(seed ...models.Order) *ordersStub {
	s := &ordersStub{m: map[string]models.Order{}}
	for _, o := range seed {
		s.m[o.OrderID] = o
	}
	return s
}

func (s *ordersStub) InsertIfAbsent(orders []models.Order) ([]string, map[string]error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	var failed map[string]error
	for _, o := range orders {
		if err, ok := s.insertFail[o.OrderID]; ok {
			if failed == nil {
				failed = map[string]error{}
			}
			failed[o.OrderID] = err
			continue
		}
		if _, ok := s.m[o.OrderID]; ok {
			continue
		}
		s.m[o.OrderID] = o
		ids = append(ids, o.OrderID)
	}
	return ids, failed
}

func (s *ordersStub) ExistingIDs(ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, id := range ids {
		if _, ok := s.m[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *ordersStub) Get(id string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (s *ordersStub) FindByRemoteInvoiceID(remoteID string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.m {
		if o.RemoteInvoiceID == remoteID {
			return o, nil
		}
	}
	return models.Order{}, gorm.ErrRecordNotFound
}

func (s *ordersStub) ListSyncable(maxRetries, limit int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.m {
		if o.SyncStatus == models.SyncPending || (o.SyncStatus == models.SyncFailed && o.SyncRetries < maxRetries) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ordersStub) ListByStatus(status models.SyncStatus, limit int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.m {
		if status == "" || o.SyncStatus == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *ordersStub) mutate(id string, fn func(o *models.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.m[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fn(&o)
	s.m[id] = o
	return nil
}

func (s *ordersStub) SetRemoteInvoiceID(id, remoteID string) error {
	return s.mutate(id, func(o *models.Order) { o.RemoteInvoiceID = remoteID })
}

func (s *ordersStub) MarkSynced(id string) error {
	return s.mutate(id, func(o *models.Order) { o.SyncStatus = models.SyncSynced; o.SyncError = "" })
}

func (s *ordersStub) MarkFailed(id, reason string) error {
	return s.mutate(id, func(o *models.Order) {
		o.SyncStatus = models.SyncFailed
		o.SyncError = reason
		o.SyncRetries++
	})
}

func (s *ordersStub) ResetForRetry(id string) error {
	return s.mutate(id, func(o *models.Order) {
		o.SyncStatus = models.SyncPending
		o.SyncError = ""
		o.SyncRetries = 0
	})
}

func (s *ordersStub) MarkShipped(id, tracking string, processed bool) error {
	return s.mutate(id, func(o *models.Order) {
		o.ShippingInfo.TrackingNumber = tracking
		o.Processed = processed
	})
}

type mappingsStub struct {
	mu sync.Mutex
	m  map[string]models.LocationMapping
}

var _ repository.LocationMappings = (*mappingsStub)(nil)

func newMappingsStub(seed ...models.LocationMapping) *mappingsStub {
	s := &mappingsStub{m: map[string]models.LocationMapping{}}
	for _, m := range seed {
		s.m[m.BooksLocationID] = m
	}
	return s
}

func (s *mappingsStub) Upsert(m models.LocationMapping) (models.LocationMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[m.BooksLocationID] = m
	return m, nil
}

func (s *mappingsStub) Get(id string) (models.LocationMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.m[id]
	if !ok {
		return models.LocationMapping{}, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (s *mappingsStub) FindByOMSLocationID(id string) (models.LocationMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.m {
		if m.OMSLocationID == id {
			return m, nil
		}
	}
	return models.LocationMapping{}, gorm.ErrRecordNotFound
}

func (s *mappingsStub) List() ([]models.LocationMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LocationMapping
	for _, m := range s.m {
		out = append(out, m)
	}
	return out, nil
}

type omsStub struct {
	openIDs      func(ctx context.Context, locationID string) ([]string, error)
	details      func(ctx context.Context, ids []string) ([]models.Order, error)
	shippingInfo func(ctx context.Context, orderID, tracking string) error
	process      func(ctx context.Context, orderID, locationID string, scan bool) (oms.ProcessResult, error)
	locations    func(ctx context.Context) ([]oms.StockLocation, error)
	setStock     func(ctx context.Context, levels []oms.StockLevel) error
	stockItems   func(ctx context.Context, page, perPage int) ([]oms.StockItem, error)

	mu     sync.Mutex
	pushed []oms.StockLevel
}

var _ svc.OMS = (*omsStub)(nil)

func (s *omsStub) GetAllOpenOrderIDs(ctx context.Context, locationID string) ([]string, error) {
	return s.openIDs(ctx, locationID)
}

func (s *omsStub) GetOpenOrderDetails(ctx context.Context, ids []string) ([]models.Order, error) {
	return s.details(ctx, ids)
}

func (s *omsStub) SetOrderShippingInfo(ctx context.Context, orderID, tracking string) error {
	return s.shippingInfo(ctx, orderID, tracking)
}

func (s *omsStub) ProcessOrder(ctx context.Context, orderID, locationID string, scan bool) (oms.ProcessResult, error) {
	return s.process(ctx, orderID, locationID, scan)
}

func (s *omsStub) GetStockLocations(ctx context.Context) ([]oms.StockLocation, error) {
	if s.locations == nil {
		return nil, nil
	}
	return s.locations(ctx)
}

func (s *omsStub) SetStockLevel(ctx context.Context, levels []oms.StockLevel) error {
	var err error
	if s.setStock != nil {
		err = s.setStock(ctx, levels)
	}
	if err == nil {
		s.mu.Lock()
		s.pushed = append(s.pushed, levels...)
		s.mu.Unlock()
	}
	return err
}

func (s *omsStub) GetStockItems(ctx context.Context, page, perPage int) ([]oms.StockItem, error) {
	return s.stockItems(ctx, page, perPage)
}

func (s *omsStub) pushedSKUs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.pushed))
	for _, l := range s.pushed {
		out = append(out, l.SKU)
	}
	sort.Strings(out)
	return out
}

type booksStub struct {
	searchContacts func(ctx context.Context, email string) ([]books.Contact, error)
	createContact  func(ctx context.Context, req books.ContactRequest) (books.Contact, error)
	itemBySKU      func(ctx context.Context, sku string) (books.Item, error)
	item           func(ctx context.Context, id string) (books.Item, error)
	itemDetails    func(ctx context.Context, ids []string) ([]books.Item, error)
	createSO       func(ctx context.Context, req books.SalesOrderRequest) (books.SalesOrder, error)
	approve        func(ctx context.Context, id string) error
	confirm        func(ctx context.Context, id string) error
}

var _ svc.Books = (*booksStub)(nil)

func (s *booksStub) SearchContactsByEmail(ctx context.Context, email string) ([]books.Contact, error) {
	return s.searchContacts(ctx, email)
}

func (s *booksStub) CreateContact(ctx context.Context, req books.ContactRequest) (books.Contact, error) {
	return s.createContact(ctx, req)
}

func (s *booksStub) GetItemBySKU(ctx context.Context, sku string) (books.Item, error) {
	return s.itemBySKU(ctx, sku)
}

func (s *booksStub) GetItem(ctx context.Context, id string) (books.Item, error) {
	return s.item(ctx, id)
}

func (s *booksStub) GetItemDetails(ctx context.Context, ids []string) ([]books.Item, error) {
	return s.itemDetails(ctx, ids)
}

func (s *booksStub) CreateSalesOrder(ctx context.Context, req books.SalesOrderRequest) (books.SalesOrder, error) {
	return s.createSO(ctx, req)
}

func (s *booksStub) ApproveSalesOrder(ctx context.Context, id string) error { return s.approve(ctx, id) }
func (s *booksStub) ConfirmSalesOrder(ctx context.Context, id string) error { return s.confirm(ctx, id) }

type recPublisher struct {
	mu     sync.Mutex
	events []svc.Event
}

func (p *recPublisher) Publish(_ context.Context, ev svc.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recPublisher) types() []svc.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]svc.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	orders   *ordersStub
	mappings *mappingsStub
	oms      *omsStub
	books    *booksStub
	events   *recPublisher
	svc      *svc.Service
}

func newFixture(opts svc.Options) *fixture {
	f := &fixture{
		orders:   newOrdersStub(),
		mappings: newMappingsStub(),
		oms:      &omsStub{},
		books:    &booksStub{},
		events:   &recPublisher{},
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 50
	}
	if opts.SyncMaxRetries == 0 {
		opts.SyncMaxRetries = 5
	}
	if len(opts.TargetWarehouses) == 0 {
		opts.TargetWarehouses = []string{"wh-1", "wh-2"}
	}
	f.svc = svc.NewService(svc.Deps{
		Repo:   &repository.Repository{Orders: f.orders, LocationMappings: f.mappings},
		OMS:    f.oms,
		Books:  f.books,
		Events: f.events,
	}, opts)
	return f
}

// readyOrder is an order that passes the readiness filter.
func readyOrder(fk *gofakeit.Faker, id string) models.Order {
	return models.Order{
		OrderID:    id,
		NumOrderID: int(fk.Number(1000, 99999)),
		GeneralInfo: models.GeneralInfo{
			Status:       1,
			ReferenceNum: fk.LetterN(8),
			ReceivedDate: fk.Date(),
			Source:       "EBAY",
		},
		CustomerInfo: models.CustomerInfo{
			Address: models.Address{
				EmailAddress: fk.Email(),
				FullName:     fk.Name(),
				Address1:     fk.Street(),
				Town:         fk.City(),
				PostCode:     fk.Zip(),
				Country:      fk.Country(),
			},
		},
		TotalsInfo: models.TotalsInfo{
			TotalCharge: decimal.NewFromFloat(fk.Price(10, 500)),
			Currency:    "gbp",
		},
		Items: []models.Item{{
			ItemID:       fk.UUID(),
			SKU:          "SKU-" + fk.LetterN(5),
			Title:        fk.ProductName(),
			Quantity:     int(fk.Number(1, 5)),
			PricePerUnit: decimal.NewFromFloat(fk.Price(1, 100)),
		}},
	}
}
