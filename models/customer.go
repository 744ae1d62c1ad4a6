package models

// Customer is immutable once registered; invoices reference it by ID.
type Customer struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	Nombre    string `gorm:"column:nombre;not null" json:"nombre"`
	Documento string `gorm:"column:documento;uniqueIndex;not null" json:"documento"`
	Direccion string `gorm:"column:direccion" json:"direccion"`
}

func (Customer) TableName() string { return "clientes" }
