package service

import (
	"fmt"
	"strings"

	"oms-books-sync/internal/clients/books"
	"oms-books-sync/internal/models"
)

// BuildContactRequest turns the customer section of an order into a Books customer contact.
func BuildContactRequest(o models.Order) books.ContactRequest {
	ship := o.CustomerInfo.Address
	bill := o.CustomerInfo.BillingAddress

	name := o.CustomerName()
	company := strings.TrimSpace(ship.Company)
	if company == "" {
		company = strings.TrimSpace(bill.Company)
	}

	var contactName string
	switch {
	case name != "" && company != "":
		contactName = fmt.Sprintf("%s (%s)", name, company)
	case name != "":
		contactName = name
	case company != "":
		contactName = company
	default:
		contactName = fmt.Sprintf("Customer %d", o.NumOrderID)
	}

	req := books.ContactRequest{
		ContactName:     contactName,
		CompanyName:     company,
		ContactType:     "customer",
		BillingAddress:  toBooksAddress(bill),
		ShippingAddress: toBooksAddress(ship),
	}

	email := o.CustomerEmail()
	phone := firstNonEmpty(ship.PhoneNumber, bill.PhoneNumber)
	if email != "" || phone != "" {
		first, last := splitName(name)
		req.ContactPersons = []books.ContactPerson{{
			FirstName:        first,
			LastName:         last,
			Email:            email,
			Phone:            phone,
			IsPrimaryContact: true,
		}}
	}
	return req
}

func toBooksAddress(a models.Address) *books.Address {
	out := books.Address{
		Attention: strings.TrimSpace(a.FullName),
		Address:   strings.TrimSpace(a.Address1),
		Street2:   strings.TrimSpace(strings.Join(nonEmpty(a.Address2, a.Address3), ", ")),
		City:      strings.TrimSpace(a.Town),
		State:     strings.TrimSpace(a.Region),
		Zip:       strings.TrimSpace(a.PostCode),
		Country:   strings.TrimSpace(a.Country),
		Phone:     strings.TrimSpace(a.PhoneNumber),
	}
	if out == (books.Address{}) {
		return nil
	}
	return &out
}

// BuildSalesOrderRequest assembles the Books sales order for an order whose customer and line items
// are already resolved. booksLocationID may be empty.
func BuildSalesOrderRequest(o models.Order, customerID string, lines []books.LineItem, booksLocationID, refPrefix string) books.SalesOrderRequest {
	gi := o.GeneralInfo

	currency := strings.ToUpper(strings.TrimSpace(o.TotalsInfo.Currency))
	if currency == "" {
		currency = "USD"
	}

	ref := firstNonEmpty(gi.ExternalReferenceNum, gi.ReferenceNum)
	if ref == "" {
		ref = fmt.Sprintf("%s%d", refPrefix, o.NumOrderID)
	}

	req := books.SalesOrderRequest{
		CustomerID:      customerID,
		LineItems:       lines,
		CurrencyCode:    currency,
		ReferenceNumber: ref,
		Notes:           orderNotes(o),
		IsInclusiveTax:  true,
		LocationID:      booksLocationID,
	}
	if !gi.ReceivedDate.IsZero() {
		req.Date = gi.ReceivedDate.Format("2006-01-02")
	}

	postage := o.TotalsInfo.PostageCost
	if !postage.IsPositive() {
		postage = o.ShippingInfo.PostageCost
	}
	if postage.IsPositive() {
		req.ShippingCharge = postage.InexactFloat64()
	}
	return req
}

func orderNotes(o models.Order) string {
	gi := o.GeneralInfo
	var parts []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Source", gi.Source)
	add("Sub-source", gi.SubSource)
	add("External ref", gi.ExternalReferenceNum)
	add("Secondary ref", gi.SecondaryReference)
	add("Payment", o.TotalsInfo.PaymentMethod)
	add("Shipping", o.ShippingInfo.PostalService)
	return strings.Join(parts, " | ")
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
