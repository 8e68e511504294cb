package store

import (
	"context"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

// ListingFilter narrows and pages the public listing feed. Prices are
// payment-token base units held as decimal strings.
type ListingFilter struct {
	MinPrice string
	MaxPrice string
	// Sort is one of price_asc, price_desc, newest (default newest)
	Sort   string
	Limit  int
	Offset int
}

// PurchaseRole filters trade history by the address's side of the trade.
type PurchaseRole string

const (
	PurchaseRoleAll  PurchaseRole = "all"
	PurchaseRoleBuy  PurchaseRole = "buy"
	PurchaseRoleSell PurchaseRole = "sell"
)

// Store defines the interface for database operations
type Store interface {
	// GetAsset retrieves an asset by token ID, nil when absent
	GetAsset(ctx context.Context, tokenID int64) (*schema.Asset, error)
	// GetAssetsByOwner retrieves all non-burned assets owned by an address
	GetAssetsByOwner(ctx context.Context, owner string) ([]*schema.Asset, error)
	// CreateAsset inserts an asset row, ignoring a concurrent duplicate
	CreateAsset(ctx context.Context, asset *schema.Asset) error
	// UpdateAssetOwner sets the owner and flips the asset back to active
	UpdateAssetOwner(ctx context.Context, tokenID int64, owner string) error
	// MarkAssetBurned flips an asset to burned
	MarkAssetBurned(ctx context.Context, tokenID int64) error

	// GetListing retrieves a listing by ID, nil when absent
	GetListing(ctx context.Context, id int64) (*schema.Listing, error)
	// GetListingByAsset retrieves the single listing row for an asset, nil when absent
	GetListingByAsset(ctx context.Context, assetID int64) (*schema.Listing, error)
	// ListActiveListings retrieves active listings with their assets, plus the total count
	ListActiveListings(ctx context.Context, filter ListingFilter) ([]*schema.Listing, int64, error)
	// CreateOrRecycleListing lists an asset, reviving a sold or cancelled row when one exists
	CreateOrRecycleListing(ctx context.Context, assetID int64, seller string, price string) (*schema.Listing, error)
	// CancelListing flips an active listing to cancelled
	CancelListing(ctx context.Context, id int64) error

	// ListPurchases retrieves trade history for an address
	ListPurchases(ctx context.Context, address string, role PurchaseRole, limit, offset int) ([]*schema.Purchase, error)

	// CreateDrop inserts a pending loot drop
	CreateDrop(ctx context.Context, drop *schema.Drop) error
	// GetDrop retrieves a drop by ID, nil when absent
	GetDrop(ctx context.Context, id int64) (*schema.Drop, error)
	// ListDrops retrieves an address's drops, optionally filtered by status
	ListDrops(ctx context.Context, address string, status domain.DropStatus, limit int) ([]*schema.Drop, error)
	// DropStats counts an address's drops per grade
	DropStats(ctx context.Context, address string) (map[string]int64, error)
	// CountAssetsByOwner counts an address's active assets
	CountAssetsByOwner(ctx context.Context, owner string) (int64, error)
	// ClaimDrop commits a claim atomically: the pending drop flips to
	// claimed with its minted token ID and the asset row is inserted.
	// A drop that is no longer pending fails the whole commit.
	ClaimDrop(ctx context.Context, dropID int64, asset *schema.Asset) error

	// ListActiveShopItems retrieves active, in-stock catalog entries
	ListActiveShopItems(ctx context.Context) ([]*schema.ShopItem, error)
	// GetShopItem retrieves a catalog entry by ID, nil when absent
	GetShopItem(ctx context.Context, id int64) (*schema.ShopItem, error)

	// CreateSettlementJob inserts a settlement job row
	CreateSettlementJob(ctx context.Context, job *schema.SettlementJob) error
	// RecordSettlementPayment advances a job to payment_sent with the payment hash
	RecordSettlementPayment(ctx context.Context, jobID string, txHash string) error
	// RecordSettlementDelivery advances a job to delivered with the delivery hash and token ID
	RecordSettlementDelivery(ctx context.Context, jobID string, txHash string, tokenID int64) error
	// FailSettlementJob marks a job failed with a terminal reason
	FailSettlementJob(ctx context.Context, jobID string, reason string) error

	// CompletePeerSettlement commits a peer-to-peer trade atomically:
	// listing sold, asset owner moved, purchase appended, job recorded
	CompletePeerSettlement(ctx context.Context, jobID string, listingID int64, purchase *schema.Purchase) error
	// CompleteShopSettlement commits a shop sale atomically:
	// stock decremented, asset inserted, purchase appended, job recorded
	CompleteShopSettlement(ctx context.Context, jobID string, itemID int64, asset *schema.Asset, purchase *schema.Purchase) error
}
