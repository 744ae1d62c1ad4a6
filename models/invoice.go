package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the header row of a sale. It is written together with its lines
// in one transaction and never updated afterwards.
type Invoice struct {
	ID            uint            `gorm:"primaryKey;column:id"`
	ClienteID     uint            `gorm:"column:cliente_id;index;not null"`
	Fecha         time.Time       `gorm:"column:fecha;not null;default:CURRENT_TIMESTAMP"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric;not null"`
	Descuento     decimal.Decimal `gorm:"column:descuento;type:numeric;not null"`
	Itbis         decimal.Decimal `gorm:"column:itbis;type:numeric;not null"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric;not null"`
	MetodoPago    string          `gorm:"column:metodo_pago;not null"`
	MontoRecibido decimal.Decimal `gorm:"column:monto_recibido;type:numeric;not null"`
	Cambio        decimal.Decimal `gorm:"column:cambio;type:numeric;not null"`

	Customer *Customer    `gorm:"foreignKey:ClienteID"`
	Lines    []InvoiceLine `gorm:"foreignKey:FacturaID;constraint:OnDelete:CASCADE"`
}

func (Invoice) TableName() string { return "facturas" }

type InvoiceLine struct {
	ID             uint            `gorm:"primaryKey;column:id"`
	FacturaID      uint            `gorm:"column:factura_id;index;not null"`
	ProductoID     uint            `gorm:"column:producto_id;index;not null"`
	Cantidad       int             `gorm:"column:cantidad;not null"`
	PrecioUnitario decimal.Decimal `gorm:"column:precio_unitario;type:numeric;not null"`
	Total          decimal.Decimal `gorm:"column:total;type:numeric;not null"`

	Product *Product `gorm:"foreignKey:ProductoID"`
}

func (InvoiceLine) TableName() string { return "detalle_factura" }
