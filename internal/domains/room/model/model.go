package model

import "lodge/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldNumber        = "number"
	FieldName          = "name"
	FieldCategory      = "category"
	FieldPricePerNight = "price_per_night"
	FieldMaxOccupancy  = "max_occupancy"
	FieldActive        = "active"
)

const (
	CategoryStandard  = "standard"
	CategoryDeluxe    = "deluxe"
	CategorySuite     = "suite"
	CategoryExecutive = "executive"
)

type Room struct {
	ID            string `db:"id"`
	Number        string `db:"number"`
	Name          string `db:"name"`
	Category      string `db:"category"`
	PricePerNight int64  `db:"price_per_night"`
	MaxOccupancy  int    `db:"max_occupancy"`
	Active        bool   `db:"active"`
	model.Metadata
}
