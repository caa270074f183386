package books

// envelope is the status header every Books response carries. A non-zero code is an error.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Contact struct {
	ContactID   string `json:"contact_id"`
	ContactName string `json:"contact_name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Address struct {
	Attention string `json:"attention,omitempty"`
	Address   string `json:"address,omitempty"`
	Street2   string `json:"street2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type ContactPerson struct {
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	IsPrimaryContact bool   `json:"is_primary_contact"`
}

type ContactRequest struct {
	ContactName     string          `json:"contact_name"`
	CompanyName     string          `json:"company_name,omitempty"`
	ContactType     string          `json:"contact_type"`
	BillingAddress  *Address        `json:"billing_address,omitempty"`
	ShippingAddress *Address        `json:"shipping_address,omitempty"`
	ContactPersons  []ContactPerson `json:"contact_persons,omitempty"`
}

// Location is the per-warehouse stock block of an item.
type Location struct {
	LocationID                  string  `json:"location_id"`
	LocationName                string  `json:"location_name"`
	AvailableStock              float64 `json:"location_available_stock"`
	AvailableForSaleStock       float64 `json:"location_available_for_sale_stock"`
	ActualAvailableForSaleStock float64 `json:"location_actual_available_for_sale_stock"`
	ActualCommittedStock        float64 `json:"location_actual_committed_stock"`
}

type Item struct {
	ItemID    string     `json:"item_id"`
	Name      string     `json:"name"`
	SKU       string     `json:"sku"`
	Rate      float64    `json:"rate"`
	TaxID     string     `json:"tax_id"`
	Status    string     `json:"status,omitempty"`
	Locations []Location `json:"locations,omitempty"`
}

type LineItem struct {
	ItemID   string  `json:"item_id,omitempty"`
	Name     string  `json:"name,omitempty"`
	SKU      string  `json:"sku,omitempty"`
	Rate     float64 `json:"rate"`
	Quantity int     `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
	TaxID    string  `json:"tax_id,omitempty"`
}

type SalesOrderRequest struct {
	CustomerID      string     `json:"customer_id"`
	Date            string     `json:"date,omitempty"`
	LineItems       []LineItem `json:"line_items"`
	CurrencyCode    string     `json:"currency_code,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ShippingCharge  float64    `json:"shipping_charge,omitempty"`
	IsInclusiveTax  bool       `json:"is_inclusive_tax"`
	LocationID      string     `json:"location_id,omitempty"`
}

type SalesOrder struct {
	SalesOrderID     string `json:"salesorder_id"`
	SalesOrderNumber string `json:"salesorder_number"`
	Status           string `json:"status"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
}
