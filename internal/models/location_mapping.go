package models

import "time"

// LocationMapping binds a Books warehouse to an OMS stock location. One row per Books warehouse id.
type LocationMapping struct {
	BooksLocationID   string    `json:"booksLocationId" gorm:"primary_key;type:varchar(64)" validate:"required"`
	BooksLocationName string    `json:"booksLocationName" validate:"required"`
	OMSLocationID     string    `json:"omsLocationId" gorm:"column:oms_location_id;type:varchar(64);index" validate:"required"`
	OMSLocationName   string    `json:"omsLocationName" gorm:"column:oms_location_name"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
