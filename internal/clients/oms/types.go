package oms

type authorizeRequest struct {
	ApplicationID     string `json:"ApplicationId"`
	ApplicationSecret string `json:"ApplicationSecret"`
	Token             string `json:"Token"`
}

type authorizeResponse struct {
	Token  string `json:"Token"`
	TTL    int    `json:"TTL"`
	Server string `json:"Server"`
}

type openOrderIDsRequest struct {
	LocationID     string `json:"LocationId"`
	EntriesPerPage int    `json:"EntriesPerPage"`
	PageNumber     int    `json:"PageNumber"`
}

type openOrderIDsResponse struct {
	Data           []string `json:"Data"`
	PageNumber     int      `json:"PageNumber"`
	EntriesPerPage int      `json:"EntriesPerPage"`
	TotalEntries   int      `json:"TotalEntries"`
	TotalPages     int      `json:"TotalPages"`
}

type ordersByIDRequest struct {
	OrderIDs []string `json:"pkOrderIds"`
}

type shippingInfoRequest struct {
	OrderID string       `json:"orderId"`
	Info    shippingInfo `json:"info"`
}

type shippingInfo struct {
	TrackingNumber string `json:"TrackingNumber"`
}

type processOrderRequest struct {
	OrderID       string `json:"orderId"`
	LocationID    string `json:"locationId"`
	ScanPerformed bool   `json:"scanPerformed"`
}

// ProcessResult is the outcome of ProcessOrder.
type ProcessResult struct {
	Processed bool   `json:"Processed"`
	Error     string `json:"Error,omitempty"`
}

// StockLocation is an OMS warehouse.
type StockLocation struct {
	ID   string `json:"StockLocationId"`
	Name string `json:"LocationName"`
}

// StockLevel sets the absolute stock of a SKU at an OMS location.
type StockLevel struct {
	SKU        string `json:"SKU"`
	LocationID string `json:"LocationId"`
	Level      int    `json:"Level"`
}

type setStockLevelRequest struct {
	StockLevels []StockLevel `json:"stockLevels"`
}

// StockItem is a page entry of the full inventory listing.
type StockItem struct {
	StockItemID   string `json:"StockItemId"`
	SKU           string `json:"ItemNumber"`
	Title         string `json:"ItemTitle"`
	BarcodeNumber string `json:"BarcodeNumber"`
}

type stockItemsRequest struct {
	EntriesPerPage int `json:"entriesPerPage"`
	PageNumber     int `json:"pageNumber"`
}

