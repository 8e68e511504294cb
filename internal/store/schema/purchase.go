package schema

import (
	"time"

	"github.com/kquest/marketplace-core/internal/domain"
)

// Purchase represents the purchases table - the append-only trade record.
// Rows are never updated or deleted.
type Purchase struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Kind distinguishes peer-to-peer trades from shop sales
	Kind domain.PurchaseKind `gorm:"column:kind;not null;type:text"`
	// TokenID is the asset that changed hands
	TokenID int64 `gorm:"column:token_id;not null;index:idx_purchases_token"`
	// BuyerAddress is the buyer's address, stored lowercase
	BuyerAddress string `gorm:"column:buyer_address;not null;type:text;index:idx_purchases_buyer"`
	// SellerAddress is the seller's address; the shop wallet for shop sales
	SellerAddress string `gorm:"column:seller_address;not null;type:text;index:idx_purchases_seller"`
	// Price is the settled price in payment-token base units
	Price string `gorm:"column:price;not null;type:text"`
	// PaymentTxHash is the payment leg's transaction hash
	PaymentTxHash string `gorm:"column:payment_tx_hash;not null;type:text"`
	// DeliveryTxHash is the delivery leg's transaction hash (transfer or mint)
	DeliveryTxHash string `gorm:"column:delivery_tx_hash;type:text"`
	// CreatedAt is the settlement timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}
