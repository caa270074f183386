package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"

	"oms-books-sync/internal/auth"
	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
	"oms-books-sync/internal/repository"
	"oms-books-sync/internal/scheduler"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

// OMS is the part of the OMS API the sync engine calls.
type OMS interface {
	GetAllOpenOrderIDs(ctx context.Context, locationID string) ([]string, error)
	GetOpenOrderDetails(ctx context.Context, ids []string) ([]models.Order, error)
	SetOrderShippingInfo(ctx context.Context, orderID, trackingNumber string) error
	ProcessOrder(ctx context.Context, orderID, locationID string, scanPerformed bool) (oms.ProcessResult, error)
	GetStockLocations(ctx context.Context) ([]oms.StockLocation, error)
	SetStockLevel(ctx context.Context, levels []oms.StockLevel) error
	GetStockItems(ctx context.Context, page, perPage int) ([]oms.StockItem, error)
}

// Books is the part of the Books API the sync engine calls.
type Books interface {
	SearchContactsByEmail(ctx context.Context, email string) ([]books.Contact, error)
	CreateContact(ctx context.Context, req books.ContactRequest) (books.Contact, error)
	GetItemBySKU(ctx context.Context, sku string) (books.Item, error)
	GetItem(ctx context.Context, itemID string) (books.Item, error)
	GetItemDetails(ctx context.Context, itemIDs []string) ([]books.Item, error)
	CreateSalesOrder(ctx context.Context, req books.SalesOrderRequest) (books.SalesOrder, error)
	ApproveSalesOrder(ctx context.Context, id string) error
	ConfirmSalesOrder(ctx context.Context, id string) error
}

type TokenStatus interface {
	Status(ctx context.Context) (auth.Status, error)
}

// Sync is everything the delivery layer can ask of the engine.
type Sync interface {
	RunPollCycle(ctx context.Context) (PollResult, error)
	RunSyncCycle(ctx context.Context) (SyncResult, error)
	RunInventorySync(ctx context.Context) (InventoryResult, error)
	Status(ctx context.Context) (Status, error)

	HandleStockWebhook(ctx context.Context, payload WebhookPayload) (WebhookResult, error)
	HandleShipment(ctx context.Context, n ShipmentNotification) (ShipmentResult, error)

	UpsertLocationMapping(m models.LocationMapping) (models.LocationMapping, error)
	GetLocationMapping(booksLocationID string) (models.LocationMapping, error)
	ListLocationMappings() ([]models.LocationMapping, error)
	ListOMSLocations(ctx context.Context) ([]oms.StockLocation, error)

	GetOrder(id string) (models.Order, error)
	ListOrders(status models.SyncStatus, limit int) ([]models.Order, error)
	RetryOrder(id string) error
}

// Webhooks is what the Kafka ingress needs.
type Webhooks interface {
	HandleWebhookMessage(ctx context.Context, payload []byte) error
}

type Options struct {
	DefaultLocationID   string
	BatchSize           int
	SyncMaxRetries      int
	SyncOrderDelay      time.Duration
	SyncStepDelay       time.Duration
	TargetWarehouses    []string
	InventoryPageSize   int
	InventoryPushBatch  int
	SalesOrderRefPrefix string
}

type Deps struct {
	Repo        *repository.Repository
	OMS         OMS
	Books       Books
	Events      EventPublisher
	OMSTokens   TokenStatus
	BooksTokens TokenStatus
}

type Status struct {
	Polling          bool        `json:"polling"`
	Syncing          bool        `json:"syncing"`
	InventorySyncing bool        `json:"inventorySyncing"`
	OMSToken         auth.Status `json:"omsToken"`
	BooksToken       auth.Status `json:"booksToken"`
}

type Service struct {
	repository.Orders

	Processor *OrderProcessor
	Syncer    *OrderSync
	Webhook   *WebhookService
	Shipments *ShipmentService
	Locations *LocationService
	Inventory *InventorySync

	omsTokens   TokenStatus
	booksTokens TokenStatus

	pollGuard      scheduler.Guard
	syncGuard      scheduler.Guard
	inventoryGuard scheduler.Guard
}

func NewService(d Deps, opts Options) *Service {
	if d.Events == nil {
		d.Events = NopPublisher{}
	}
	v := validator.New()

	locations := NewLocationService(d.Repo.LocationMappings, d.OMS, v)
	pusher := NewStockPusher(d.OMS, locations, d.Events)

	return &Service{
		Orders:      d.Repo.Orders,
		Processor:   NewOrderProcessor(d.OMS, d.Repo.Orders, d.Events, opts),
		Syncer:      NewOrderSync(d.Books, d.Repo.Orders, locations, d.Events, opts),
		Webhook:     NewWebhookService(d.Books, pusher, opts.TargetWarehouses),
		Shipments:   NewShipmentService(d.OMS, d.Repo.Orders, d.Events, v, opts.DefaultLocationID),
		Locations:   locations,
		Inventory:   NewInventorySync(d.OMS, d.Books, pusher, opts),
		omsTokens:   d.OMSTokens,
		booksTokens: d.BooksTokens,
	}
}

var _ Sync = (*Service)(nil)
var _ Webhooks = (*Service)(nil)

func (s *Service) RunPollCycle(ctx context.Context) (res PollResult, err error) {
	err = s.pollGuard.Run(func() error {
		res, err = s.Processor.ProcessOpenOrders(ctx)
		return err
	})
	return res, err
}

func (s *Service) RunSyncCycle(ctx context.Context) (res SyncResult, err error) {
	err = s.syncGuard.Run(func() error {
		res, err = s.Syncer.ProcessPending(ctx)
		return err
	})
	return res, err
}

func (s *Service) RunInventorySync(ctx context.Context) (res InventoryResult, err error) {
	err = s.inventoryGuard.Run(func() error {
		res, err = s.Inventory.Run(ctx)
		return err
	})
	return res, err
}

func (s *Service) Status(ctx context.Context) (Status, error) {
	st := Status{
		Polling:          s.pollGuard.Running(),
		Syncing:          s.syncGuard.Running(),
		InventorySyncing: s.inventoryGuard.Running(),
	}
	if s.omsTokens != nil {
		ts, err := s.omsTokens.Status(ctx)
		if err != nil {
			return st, err
		}
		st.OMSToken = ts
	}
	if s.booksTokens != nil {
		ts, err := s.booksTokens.Status(ctx)
		if err != nil {
			return st, err
		}
		st.BooksToken = ts
	}
	return st, nil
}

func (s *Service) HandleStockWebhook(ctx context.Context, payload WebhookPayload) (WebhookResult, error) {
	return s.Webhook.Dispatch(ctx, payload)
}

func (s *Service) HandleWebhookMessage(ctx context.Context, payload []byte) error {
	p, err := DecodeWebhookPayload(payload)
	if err != nil {
		return err
	}
	_, err = s.Webhook.Dispatch(ctx, p)
	return err
}

func (s *Service) HandleShipment(ctx context.Context, n ShipmentNotification) (ShipmentResult, error) {
	return s.Shipments.Handle(ctx, n)
}

func (s *Service) UpsertLocationMapping(m models.LocationMapping) (models.LocationMapping, error) {
	return s.Locations.Upsert(m)
}

func (s *Service) GetLocationMapping(booksLocationID string) (models.LocationMapping, error) {
	return s.Locations.Get(booksLocationID)
}

func (s *Service) ListLocationMappings() ([]models.LocationMapping, error) {
	return s.Locations.List()
}

func (s *Service) ListOMSLocations(ctx context.Context) ([]oms.StockLocation, error) {
	return s.Locations.OMSLocations(ctx)
}

func (s *Service) GetOrder(id string) (models.Order, error) {
	o, err := s.Orders.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

func (s *Service) ListOrders(status models.SyncStatus, limit int) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, validationf("unknown sync status %q", status)
	}
	return s.Orders.ListByStatus(status, limit)
}

// RetryOrder puts a failed order back in the sync queue with a fresh retry budget.
func (s *Service) RetryOrder(id string) error {
	o, err := s.GetOrder(id)
	if err != nil {
		return err
	}
	if o.SyncStatus != models.SyncFailed {
		return validationf("order %s is %s, only failed orders can be retried", id, o.SyncStatus)
	}
	return s.Orders.ResetForRetry(id)
}
