package schema

import (
	"time"

	"github.com/kquest/marketplace-core/internal/domain"
)

// Asset represents the assets table - the off-chain mirror of on-chain token state.
// The primary key is the ledger-assigned token ID, not an auto-increment.
type Asset struct {
	// TokenID is the on-chain token identifier assigned at mint time
	TokenID int64 `gorm:"column:token_id;primaryKey"`
	// OwnerAddress is the current owner's address, stored lowercase
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index:idx_assets_owner"`
	// MetadataURI is the content-addressable reference to the asset metadata
	MetadataURI string `gorm:"column:metadata_uri;type:text"`
	// MintTxHash is the transaction hash of the mint, when known
	MintTxHash string `gorm:"column:mint_tx_hash;type:text"`
	// Status is the lifecycle state (active, burned)
	Status domain.AssetStatus `gorm:"column:status;not null;type:text;default:active"`
	// CreatedAt is the timestamp this record was first written
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the most recent mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}
