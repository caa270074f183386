package models

import "github.com/shopspring/decimal"

type Item struct {
	ID           uint            `json:"-" gorm:"primary_key"`
	OrderRefer   string          `json:"-" gorm:"type:varchar(64);index"`
	ItemID       string          `json:"ItemId"`
	StockItemID  string          `json:"StockItemId"`
	SKU          string          `json:"SKU" gorm:"column:sku;index"`
	ItemNumber   string          `json:"ItemNumber"`
	Title        string          `json:"Title"`
	Quantity     int             `json:"Quantity"`
	PricePerUnit decimal.Decimal `json:"PricePerUnit" gorm:"type:numeric(14,4)"`
	UnitCost     decimal.Decimal `json:"UnitCost" gorm:"type:numeric(14,4)"`
	TaxRate      decimal.Decimal `json:"TaxRate" gorm:"type:numeric(8,4)"`
}
