package schema

import (
	"time"

	"github.com/kquest/marketplace-core/internal/domain"
)

// Listing represents the listings table. Each asset has at most one row;
// a sold or cancelled row is recycled back to active on relist instead of
// inserting a second row.
type Listing struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// AssetID references the listed asset; the unique index enforces one row per asset
	AssetID int64 `gorm:"column:asset_id;not null;uniqueIndex"`
	// SellerAddress is the seller's address, stored lowercase
	SellerAddress string `gorm:"column:seller_address;not null;type:text;index:idx_listings_seller"`
	// BuyerAddress is set when the listing is sold, cleared on recycle
	BuyerAddress *string `gorm:"column:buyer_address;type:text"`
	// Price is the asking price in payment-token base units (string to avoid float drift)
	Price string `gorm:"column:price;not null;type:text"`
	// Status is the lifecycle state (active, sold, cancelled)
	Status domain.ListingStatus `gorm:"column:status;not null;type:text;default:active;index:idx_listings_status"`
	// CreatedAt is the timestamp of the original listing row
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the most recent mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`

	// Associations
	Asset *Asset `gorm:"foreignKey:AssetID;references:TokenID"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}
