package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/models"
	svc "oms-books-sync/internal/service"
)

func TestBuildSalesOrderRequest(t *testing.T) {
	o := models.Order{
		NumOrderID: 1042,
		GeneralInfo: models.GeneralInfo{
			ReceivedDate: time.Date(2024, 3, 9, 15, 4, 0, 0, time.UTC),
			Source:       "AMAZON",
			SubSource:    "amazon.co.uk",
		},
		ShippingInfo: models.ShippingInfo{PostalService: "Royal Mail"},
		TotalsInfo: models.TotalsInfo{
			PostageCost:   decimal.RequireFromString("3.50"),
			PaymentMethod: "card",
		},
	}
	lines := []books.LineItem{{ItemID: "i", Quantity: 1}}

	req := svc.BuildSalesOrderRequest(o, "c-1", lines, "", "OMS-")
	require.Equal(t, "2024-03-09", req.Date)
	require.Equal(t, "USD", req.CurrencyCode)
	require.Equal(t, "OMS-1042", req.ReferenceNumber)
	require.Equal(t, 3.5, req.ShippingCharge)
	require.True(t, req.IsInclusiveTax)
	require.Equal(t, "Source: AMAZON | Sub-source: amazon.co.uk | Payment: card | Shipping: Royal Mail", req.Notes)

	o.GeneralInfo.ReferenceNum = "REF-1"
	o.GeneralInfo.ExternalReferenceNum = "EXT-1"
	req = svc.BuildSalesOrderRequest(o, "c-1", lines, "wh", "OMS-")
	require.Equal(t, "EXT-1", req.ReferenceNumber)
	require.Equal(t, "wh", req.LocationID)
	require.True(t, strings.Contains(req.Notes, "External ref: EXT-1"))
}

func TestBuildContactRequest_Names(t *testing.T) {
	o := models.Order{NumOrderID: 7}
	require.Equal(t, "Customer 7", svc.BuildContactRequest(o).ContactName)
	require.Nil(t, svc.BuildContactRequest(o).ContactPersons)

	o.CustomerInfo.Address = models.Address{FullName: "Jane Doe", Company: "Acme", EmailAddress: "j@acme.io", Town: "Leeds"}
	req := svc.BuildContactRequest(o)
	require.Equal(t, "Jane Doe (Acme)", req.ContactName)
	require.Equal(t, "Acme", req.CompanyName)
	require.NotNil(t, req.ShippingAddress)
	require.Equal(t, "Leeds", req.ShippingAddress.City)
	require.Nil(t, req.BillingAddress)
	require.Equal(t, "Jane", req.ContactPersons[0].FirstName)
	require.Equal(t, "Doe", req.ContactPersons[0].LastName)
}
