package entity

import "time"

// Customer master record
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// Product finished-goods master record
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SKU       string    `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	Unit      string    `json:"unit" gorm:"size:20;not null;default:KG"`
	CreatedAt time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// Material raw-material master record
type Material struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	UOM       string    `json:"uom" gorm:"size:20;not null;default:KG"`
	CostPerKg float64   `json:"cost_per_kg" gorm:"type:decimal(12,4);default:0"`
	StockQty  float64   `json:"stock_qty" gorm:"type:decimal(12,4);default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (Material) TableName() string {
	return "materials"
}

// ProductionLine belongs to one section of the factory floor
type ProductionLine struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	SectionName string    `json:"section_name" gorm:"size:32;not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ProductionLine) TableName() string {
	return "production_lines"
}
