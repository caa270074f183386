package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncFailed:
		return true
	}
	return false
}

// Order is an OMS open order as fetched from the OMS plus the local sync bookkeeping.
// The JSON names of the OMS part follow the OMS wire format.
type Order struct {
	OrderID              string `json:"OrderId" gorm:"primary_key;type:varchar(64)"`
	NumOrderID           int    `json:"NumOrderId" gorm:"index"`
	Processed            bool   `json:"Processed"`
	FulfilmentLocationID string `json:"FulfilmentLocationId" gorm:"type:varchar(64)"`

	GeneralInfo  GeneralInfo  `json:"GeneralInfo" gorm:"embedded;embedded_prefix:general_"`
	ShippingInfo ShippingInfo `json:"ShippingInfo" gorm:"embedded;embedded_prefix:shipping_"`
	CustomerInfo CustomerInfo `json:"CustomerInfo" gorm:"embedded;embedded_prefix:customer_"`
	TotalsInfo   TotalsInfo   `json:"TotalsInfo" gorm:"embedded;embedded_prefix:totals_"`
	Items        []Item       `json:"Items" gorm:"foreignkey:OrderRefer;association_foreignkey:OrderID"`

	SyncStatus      SyncStatus `json:"syncStatus" gorm:"type:varchar(16);index;not null;default:'pending'"`
	SyncRetries     int        `json:"syncRetries" gorm:"not null;default:0"`
	SyncError       string     `json:"syncError,omitempty" gorm:"type:text"`
	RemoteInvoiceID string     `json:"remoteInvoiceId,omitempty" gorm:"type:varchar(64);index"`
	LastSyncedAt    *time.Time `json:"lastSyncedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GeneralInfo struct {
	Status               int       `json:"Status"`
	ReferenceNum         string    `json:"ReferenceNum"`
	SecondaryReference   string    `json:"SecondaryReference"`
	ExternalReferenceNum string    `json:"ExternalReferenceNum"`
	ReceivedDate         time.Time `json:"ReceivedDate"`
	DespatchByDate       time.Time `json:"DespatchByDate"`
	Source               string    `json:"Source"`
	SubSource            string    `json:"SubSource"`
}

type ShippingInfo struct {
	Vendor         string          `json:"Vendor"`
	PostalService  string          `json:"PostalServiceName"`
	TrackingNumber string          `json:"TrackingNumber"`
	TotalWeight    decimal.Decimal `json:"TotalWeight" gorm:"type:numeric(14,4)"`
	PostageCost    decimal.Decimal `json:"PostageCost" gorm:"type:numeric(14,4)"`
}

type CustomerInfo struct {
	ChannelBuyerName string  `json:"ChannelBuyerName"`
	Address          Address `json:"Address" gorm:"embedded;embedded_prefix:address_"`
	BillingAddress   Address `json:"BillingAddress" gorm:"embedded;embedded_prefix:billing_"`
}

type Address struct {
	EmailAddress string `json:"EmailAddress"`
	FullName     string `json:"FullName"`
	Company      string `json:"Company"`
	Address1     string `json:"Address1"`
	Address2     string `json:"Address2"`
	Address3     string `json:"Address3"`
	Town         string `json:"Town"`
	Region       string `json:"Region"`
	PostCode     string `json:"PostCode"`
	Country      string `json:"Country"`
	PhoneNumber  string `json:"PhoneNumber"`
}

type TotalsInfo struct {
	Subtotal       decimal.Decimal `json:"Subtotal" gorm:"type:numeric(14,4)"`
	Tax            decimal.Decimal `json:"Tax" gorm:"type:numeric(14,4)"`
	TotalCharge    decimal.Decimal `json:"TotalCharge" gorm:"type:numeric(14,4)"`
	TotalDiscount  decimal.Decimal `json:"TotalDiscount" gorm:"type:numeric(14,4)"`
	PostageCost    decimal.Decimal `json:"PostageCost" gorm:"type:numeric(14,4)"`
	PaymentMethod  string          `json:"PaymentMethod"`
	Currency       string          `json:"Currency" gorm:"type:varchar(8)"`
	ConversionRate decimal.Decimal `json:"ConversionRate" gorm:"type:numeric(14,6)"`
}

// CustomerEmail returns the first non-empty email of the shipping and billing addresses.
func (o Order) CustomerEmail() string {
	if e := strings.TrimSpace(o.CustomerInfo.Address.EmailAddress); e != "" {
		return e
	}
	return strings.TrimSpace(o.CustomerInfo.BillingAddress.EmailAddress)
}

func (o Order) CustomerName() string {
	if n := strings.TrimSpace(o.CustomerInfo.Address.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(o.CustomerInfo.BillingAddress.FullName)
}

// IsReady tells whether an open order is complete enough to be stored. Orders that are not ready are
// expected to reappear on a later poll once the OMS has filled them in.
func (o Order) IsReady() bool {
	if len(o.Items) == 0 {
		return false
	}
	if !o.TotalsInfo.TotalCharge.IsPositive() {
		return false
	}
	if o.GeneralInfo.Status == 0 {
		return false
	}
	return o.CustomerName() != "" || o.CustomerEmail() != ""
}
