package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/repository"
)

type Package struct {
	TrackingNumber string `json:"tracking_number"`
	ShipmentOrder  struct {
		TrackingNumber string `json:"tracking_number"`
	} `json:"shipment_order"`
}

func (p Package) Tracking() string {
	return firstNonEmpty(p.TrackingNumber, p.ShipmentOrder.TrackingNumber)
}

// ShipmentNotification is a Books shipment event. Both the flat body and the body wrapped in a
// "salesorder" object are accepted.
type ShipmentNotification struct {
	SalesOrderID string    `json:"salesorder_id" validate:"required"`
	Packages     []Package `json:"packages"`
}

func (n *ShipmentNotification) UnmarshalJSON(b []byte) error {
	type flat ShipmentNotification
	var wrapped struct {
		SalesOrder *flat `json:"salesorder"`
		flat
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	if wrapped.SalesOrder != nil && wrapped.SalesOrderID == "" {
		*n = ShipmentNotification(*wrapped.SalesOrder)
		return nil
	}
	*n = ShipmentNotification(wrapped.flat)
	return nil
}

// TrackingNumber reads the first package.
func (n ShipmentNotification) TrackingNumber() string {
	if len(n.Packages) == 0 {
		return ""
	}
	return n.Packages[0].Tracking()
}

const (
	ShipmentProcessed = "processed"
	ShipmentIgnored   = "ignored"
)

type ShipmentResult struct {
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	OrderID        string `json:"orderId,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Processed      bool   `json:"processed"`
}

type ShipmentSink interface {
	SetOrderShippingInfo(ctx context.Context, orderID, trackingNumber string) error
	ProcessOrder(ctx context.Context, orderID, locationID string, scanPerformed bool) (oms.ProcessResult, error)
}

// ShipmentService mirrors Books shipments onto the OMS order: tracking first, then processing.
type ShipmentService struct {
	oms             ShipmentSink
	orders          repository.Orders
	events          EventPublisher
	v               *validator.Validate
	defaultLocation string
}

func NewShipmentService(sink ShipmentSink, orders repository.Orders, events EventPublisher, v *validator.Validate, defaultLocation string) *ShipmentService {
	if v == nil {
		v = validator.New()
	}
	return &ShipmentService{oms: sink, orders: orders, events: events, v: v, defaultLocation: defaultLocation}
}

func (s *ShipmentService) Handle(ctx context.Context, n ShipmentNotification) (ShipmentResult, error) {
	n.SalesOrderID = strings.TrimSpace(n.SalesOrderID)
	if err := validateStruct(s.v, n); err != nil {
		return ShipmentResult{}, err
	}

	o, err := s.orders.FindByRemoteInvoiceID(n.SalesOrderID)
	if gorm.IsRecordNotFoundError(err) {
		logrus.WithField("sales_order", n.SalesOrderID).Info("shipment for unknown sales order ignored")
		return ShipmentResult{Status: ShipmentIgnored, Message: "sales order not found"}, nil
	}
	if err != nil {
		return ShipmentResult{}, errors.Wrapf(err, "find order for sales order %s", n.SalesOrderID)
	}

	tracking := n.TrackingNumber()
	if tracking == "" {
		return ShipmentResult{}, validationf("shipment for sales order %s has no tracking number", n.SalesOrderID)
	}

	log := logrus.WithFields(logrus.Fields{"order": o.OrderID, "tracking": tracking})
	res := ShipmentResult{Status: ShipmentProcessed, OrderID: o.OrderID, TrackingNumber: tracking}

	if err := s.oms.SetOrderShippingInfo(ctx, o.OrderID, tracking); err != nil {
		return ShipmentResult{}, errors.Wrap(err, "set shipping info")
	}

	location := o.FulfilmentLocationID
	if location == "" {
		location = s.defaultLocation
	}
	pr, err := s.oms.ProcessOrder(ctx, o.OrderID, location, true)
	if err == nil && !pr.Processed {
		err = errors.Errorf("oms did not process order: %s", pr.Error)
	}
	if err != nil {
		log.WithError(err).Error("process order after shipment")
		if mErr := s.orders.MarkShipped(o.OrderID, tracking, false); mErr != nil {
			log.WithError(mErr).Error("store tracking number")
		}
		return res, errors.Wrapf(ErrShipmentProcessing, "%v", err)
	}

	if err := s.orders.MarkShipped(o.OrderID, tracking, true); err != nil {
		return res, errors.Wrap(err, "store shipment")
	}
	res.Processed = true
	log.Info("shipment mirrored to oms")

	ev := NewEvent(EventOrderShipped)
	ev.OrderID = o.OrderID
	ev.RemoteID = n.SalesOrderID
	publish(ctx, s.events, ev)
	return res, nil
}
