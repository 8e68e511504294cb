package schema

import (
	"time"

	"github.com/kquest/marketplace-core/internal/domain"
)

// SettlementStep marks how far a settlement progressed. A job stuck
// between payment_sent and delivered is the paid-but-not-delivered
// window operators must remediate by hand.
type SettlementStep string

const (
	SettlementStepPaymentPending SettlementStep = "payment_pending"
	SettlementStepPaymentSent    SettlementStep = "payment_sent"
	SettlementStepDelivered      SettlementStep = "delivered"
	SettlementStepRecorded       SettlementStep = "recorded"
	SettlementStepFailed         SettlementStep = "failed"
)

// SettlementJob represents the settlement_jobs table - one row per
// settlement attempt, advanced after each leg so a crash leaves an
// inspectable marker.
type SettlementJob struct {
	// ID is a uuid assigned at job creation
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind distinguishes peer-to-peer jobs from shop jobs
	Kind domain.PurchaseKind `gorm:"column:kind;not null;type:text"`
	// Step is the furthest completed marker
	Step SettlementStep `gorm:"column:step;not null;type:text;index:idx_settlement_jobs_step"`
	// BuyerAddress is the buyer's address, stored lowercase
	BuyerAddress string `gorm:"column:buyer_address;not null;type:text"`
	// SellerAddress is the seller's address; the shop wallet for shop jobs
	SellerAddress string `gorm:"column:seller_address;not null;type:text"`
	// TokenID is the delivered asset; zero until a shop mint assigns one
	TokenID int64 `gorm:"column:token_id"`
	// ListingID references the listing for peer-to-peer jobs
	ListingID *int64 `gorm:"column:listing_id"`
	// ShopItemID references the catalog entry for shop jobs
	ShopItemID *int64 `gorm:"column:shop_item_id"`
	// Price is the settled price in payment-token base units
	Price string `gorm:"column:price;not null;type:text"`
	// PaymentTxHash is recorded as soon as the payment leg confirms
	PaymentTxHash string `gorm:"column:payment_tx_hash;type:text"`
	// DeliveryTxHash is recorded after the delivery leg confirms
	DeliveryTxHash string `gorm:"column:delivery_tx_hash;type:text"`
	// FailReason holds the terminal error for failed jobs
	FailReason string `gorm:"column:fail_reason;type:text"`
	// CreatedAt is the job creation timestamp
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the most recent step advance
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the SettlementJob model
func (SettlementJob) TableName() string {
	return "settlement_jobs"
}
