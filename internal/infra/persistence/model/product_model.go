package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. Deleting the owning user cascades.
type ProductModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description *string         `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;check:chk_products_price,price >= 0"`
	Unit        *string         `gorm:"type:varchar(50)"`
	Category    *string         `gorm:"type:varchar(100)"`
	ImageURL    *string         `gorm:"column:image_url;type:varchar(255)"`
	FarmerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_farmer_id"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Farmer *UserModel `gorm:"foreignKey:FarmerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
