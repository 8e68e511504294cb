package schema

import (
	"time"

	"github.com/kquest/marketplace-core/internal/domain"
)

// Drop represents the drop_items table - loot rolled on monster kills.
// A pending drop exists only off-chain; claiming mints it as a token.
type Drop struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UserAddress is the player the item dropped for, stored lowercase
	UserAddress string `gorm:"column:user_address;not null;type:text;index:idx_drop_items_user"`
	// MonsterType is the kill that produced the drop
	MonsterType string `gorm:"column:monster_type;not null;type:text"`
	// MonsterLevel is the level of the killed monster
	MonsterLevel int `gorm:"column:monster_level;not null;default:1"`
	// ItemName is the rolled item
	ItemName string `gorm:"column:item_name;not null;type:text"`
	// ItemGrade is the rolled rarity tier
	ItemGrade string `gorm:"column:item_grade;not null;type:text"`
	// Status is the lifecycle state (pending, claimed)
	Status domain.DropStatus `gorm:"column:status;not null;type:text;default:pending;index:idx_drop_items_status"`
	// MintedTokenID is set once the drop is claimed as a token
	MintedTokenID *int64 `gorm:"column:minted_token_id"`
	// DroppedAt is the roll timestamp
	DroppedAt time.Time `gorm:"column:dropped_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the most recent mutation
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Drop model
func (Drop) TableName() string {
	return "drop_items"
}
