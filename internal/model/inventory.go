package model

import "time"

// InventoryItem is a point-in-time product snapshot. The table is written by
// an external ingestion job; this service only reads it.
type InventoryItem struct {
	SnapshotID   string  `json:"snapshot_id" gorm:"primaryKey;type:varchar(36)"`
	Description  string  `json:"descripcion" gorm:"column:descripcion;type:text"`
	Tag          string  `json:"tag" gorm:"type:varchar(64);index"`
	Size         string  `json:"medida" gorm:"column:medida;type:varchar(32);index"`
	Category     string  `json:"categoria" gorm:"column:categoria;type:varchar(64)"`
	Price        float64 `json:"precio" gorm:"column:precio;type:decimal(10,2)"`
	PriceWithTax float64 `json:"precio_con_iva" gorm:"column:precio_con_iva;type:decimal(10,2)"`
	Stock        int64   `json:"existencia" gorm:"column:existencia;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventario" }
