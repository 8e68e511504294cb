package schema

import (
	"time"
)

// ShopItem represents the shop_items table - server-sold catalog entries.
type ShopItem struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Name is the catalog display name
	Name string `gorm:"column:name;not null;type:text"`
	// Description is the catalog description embedded into minted metadata
	Description string `gorm:"column:description;type:text"`
	// Price is the sale price in payment-token base units
	Price string `gorm:"column:price;not null;type:text"`
	// Stock is the remaining sellable quantity; decremented on each sale
	Stock int `gorm:"column:stock;not null;default:0"`
	// Rarity is a free-form tier label carried into minted metadata
	Rarity string `gorm:"column:rarity;type:text"`
	// ImagePath is the server-local image uploaded at mint time
	ImagePath string `gorm:"column:image_path;type:text"`
	// Active gates catalog visibility independently of stock
	Active bool `gorm:"column:active;not null;default:true"`
	// CreatedAt is the timestamp this item was added
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the most recent mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ShopItem model
func (ShopItem) TableName() string {
	return "shop_items"
}
