package models

// StockUpdateItem is one (item, warehouse) stock figure computed from a Books event. It lives only for
// the duration of a single dispatch.
type StockUpdateItem struct {
	SKU               string
	ItemID            string
	Quantity          int
	BooksLocationID   string
	BooksLocationName string
}
