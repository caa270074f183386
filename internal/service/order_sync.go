package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/models"
	"oms-books-sync/internal/remote"
	"oms-books-sync/internal/repository"
)

type OrderOutcome struct {
	OrderID      string `json:"orderId"`
	SalesOrderID string `json:"salesOrderId,omitempty"`
	Resumed      bool   `json:"resumed,omitempty"`
	Error        string `json:"error,omitempty"`
}

type SyncResult struct {
	Processed int            `json:"processed"`
	Synced    int            `json:"synced"`
	Failed    int            `json:"failed"`
	Orders    []OrderOutcome `json:"orders,omitempty"`
}

// OrderSync pushes stored orders into Books as approved and confirmed sales orders.
type OrderSync struct {
	books     Books
	orders    repository.Orders
	locations *LocationService
	events    EventPublisher

	maxRetries int
	batchSize  int
	orderDelay time.Duration
	stepDelay  time.Duration
	refPrefix  string
}

func NewOrderSync(b Books, orders repository.Orders, locations *LocationService, events EventPublisher, opts Options) *OrderSync {
	maxRetries := opts.SyncMaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}
	bs := opts.BatchSize
	if bs <= 0 {
		bs = 50
	}
	return &OrderSync{
		books:      b,
		orders:     orders,
		locations:  locations,
		events:     events,
		maxRetries: maxRetries,
		batchSize:  bs,
		orderDelay: opts.SyncOrderDelay,
		stepDelay:  opts.SyncStepDelay,
		refPrefix:  opts.SalesOrderRefPrefix,
	}
}

// ProcessPending syncs eligible orders oldest first, one at a time, pausing between orders.
func (s *OrderSync) ProcessPending(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	orders, err := s.orders.ListSyncable(s.maxRetries, s.batchSize)
	if err != nil {
		return res, errors.Wrap(err, "list syncable orders")
	}

	for i, o := range orders {
		if i > 0 {
			if err := sleepCtx(ctx, s.orderDelay); err != nil {
				return res, err
			}
		}
		out := s.SyncOrder(ctx, o)
		res.Processed++
		if out.Error != "" {
			res.Failed++
		} else {
			res.Synced++
		}
		res.Orders = append(res.Orders, out)
	}

	if res.Processed > 0 {
		logrus.WithFields(logrus.Fields{
			"processed": res.Processed,
			"synced":    res.Synced,
			"failed":    res.Failed,
		}).Info("sync cycle done")
	}
	return res, nil
}

// SyncOrder runs the whole pipeline for one order and records the outcome on it.
func (s *OrderSync) SyncOrder(ctx context.Context, o models.Order) OrderOutcome {
	out := OrderOutcome{OrderID: o.OrderID, SalesOrderID: o.RemoteInvoiceID, Resumed: o.RemoteInvoiceID != ""}
	log := logrus.WithField("order", o.OrderID)

	soID, err := s.run(ctx, o, log)
	if soID != "" {
		out.SalesOrderID = soID
	}
	if err != nil {
		out.Error = trimErr(err)
		orderSyncs.WithLabelValues("failed").Inc()
		log.WithError(err).Error("order sync failed")
		if mErr := s.orders.MarkFailed(o.OrderID, out.Error); mErr != nil {
			log.WithError(mErr).Error("mark order failed")
		}
		ev := NewEvent(EventOrderSyncFailed)
		ev.OrderID = o.OrderID
		ev.RemoteID = out.SalesOrderID
		ev.Error = out.Error
		publish(ctx, s.events, ev)
		return out
	}

	if err := s.orders.MarkSynced(o.OrderID); err != nil {
		out.Error = trimErr(err)
		orderSyncs.WithLabelValues("failed").Inc()
		log.WithError(err).Error("mark order synced")
		return out
	}
	orderSyncs.WithLabelValues("ok").Inc()
	log.WithField("sales_order", out.SalesOrderID).Info("order synced")

	ev := NewEvent(EventOrderSynced)
	ev.OrderID = o.OrderID
	ev.RemoteID = out.SalesOrderID
	publish(ctx, s.events, ev)
	return out
}

func (s *OrderSync) run(ctx context.Context, o models.Order, log *logrus.Entry) (string, error) {
	soID := o.RemoteInvoiceID
	resumed := soID != ""

	if !resumed {
		customerID, err := s.resolveCustomer(ctx, o)
		if err != nil {
			return "", err
		}
		lines, err := s.resolveLineItems(ctx, o)
		if err != nil {
			return "", err
		}

		var booksLocation string
		if m, ok := s.locations.ForOMSLocation(o.FulfilmentLocationID); ok {
			booksLocation = m.BooksLocationID
		}

		so, err := s.books.CreateSalesOrder(ctx, BuildSalesOrderRequest(o, customerID, lines, booksLocation, s.refPrefix))
		if err != nil {
			return "", errors.Wrap(err, "create sales order")
		}
		soID = so.SalesOrderID
		if err := s.orders.SetRemoteInvoiceID(o.OrderID, soID); err != nil {
			return soID, errors.Wrap(err, "store sales order id")
		}
		log.WithField("sales_order", soID).Info("sales order created")

		if err := sleepCtx(ctx, s.stepDelay); err != nil {
			return soID, err
		}
	} else {
		log.WithField("sales_order", soID).Info("resuming sync of existing sales order")
	}

	if err := s.books.ApproveSalesOrder(ctx, soID); err != nil {
		if !resumed || !remote.IsValidation(err) {
			return soID, errors.Wrap(err, "approve sales order")
		}
		log.WithError(err).Debug("approve rejected on resume, assuming already approved")
	}
	if err := sleepCtx(ctx, s.stepDelay); err != nil {
		return soID, err
	}
	if err := s.books.ConfirmSalesOrder(ctx, soID); err != nil {
		if !resumed || !remote.IsValidation(err) {
			return soID, errors.Wrap(err, "confirm sales order")
		}
		log.WithError(err).Debug("confirm rejected on resume, assuming already confirmed")
	}
	return soID, nil
}

// resolveCustomer reuses the first contact matching the order email, else creates one.
func (s *OrderSync) resolveCustomer(ctx context.Context, o models.Order) (string, error) {
	if email := o.CustomerEmail(); email != "" {
		found, err := s.books.SearchContactsByEmail(ctx, email)
		if err != nil {
			return "", errors.Wrap(err, "search contact")
		}
		if len(found) > 0 {
			if len(found) > 1 {
				logrus.WithFields(logrus.Fields{
					"order":   o.OrderID,
					"matches": len(found),
				}).Debug("several contacts share the email, using the first")
			}
			return found[0].ContactID, nil
		}
	}

	c, err := s.books.CreateContact(ctx, BuildContactRequest(o))
	if err != nil {
		return "", errors.Wrap(err, "create contact")
	}
	return c.ContactID, nil
}

func (s *OrderSync) resolveLineItems(ctx context.Context, o models.Order) ([]books.LineItem, error) {
	lines := make([]books.LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		sku := strings.TrimSpace(it.SKU)
		if sku == "" {
			sku = strings.TrimSpace(it.ItemNumber)
		}
		if sku == "" {
			return nil, errors.Errorf("item %s has no sku", it.ItemID)
		}

		bi, err := s.books.GetItemBySKU(ctx, sku)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve sku %s", sku)
		}
		if bi.TaxID == "" {
			full, err := s.books.GetItem(ctx, bi.ItemID)
			if err != nil {
				return nil, errors.Wrapf(err, "load item %s", bi.ItemID)
			}
			bi.TaxID = full.TaxID
		}

		lines = append(lines, books.LineItem{
			ItemID:   bi.ItemID,
			Name:     firstNonEmpty(it.Title, bi.Name),
			Rate:     it.PricePerUnit.InexactFloat64(),
			Quantity: it.Quantity,
			TaxID:    bi.TaxID,
		})
	}
	return lines, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
