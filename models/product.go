package models

import "github.com/shopspring/decimal"

type Product struct {
	ID     uint            `gorm:"primaryKey;column:id" json:"id"`
	Nombre string          `gorm:"column:nombre;not null" json:"nombre"`
	Precio decimal.Decimal `gorm:"column:precio;type:numeric;not null" json:"precio"`
}

func (Product) TableName() string { return "productos" }
