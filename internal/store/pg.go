package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Open connects to PostgreSQL and configures the connection pool
func Open(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := configureConnectionPool(db, maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the marketplace tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.Asset{},
		&schema.Listing{},
		&schema.Purchase{},
		&schema.ShopItem{},
		&schema.SettlementJob{},
		&schema.Drop{},
	)
}

// configureConnectionPool sets pool limits on the underlying sql.DB,
// applying defaults when a setting is zero.
func configureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// GetAsset retrieves an asset by token ID, nil when absent
func (s *pgStore) GetAsset(ctx context.Context, tokenID int64) (*schema.Asset, error) {
	var asset schema.Asset
	err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &asset, nil
}

// GetAssetsByOwner retrieves all non-burned assets owned by an address
func (s *pgStore) GetAssetsByOwner(ctx context.Context, owner string) ([]*schema.Asset, error) {
	var assets []*schema.Asset
	err := s.db.WithContext(ctx).
		Where("owner_address = ? AND status <> ?", domain.NormalizeAddress(owner), domain.AssetStatusBurned).
		Order("token_id").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get assets by owner: %w", err)
	}
	return assets, nil
}

// CreateAsset inserts an asset row, ignoring a concurrent duplicate
func (s *pgStore) CreateAsset(ctx context.Context, asset *schema.Asset) error {
	asset.OwnerAddress = domain.NormalizeAddress(asset.OwnerAddress)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoNothing: true,
		}).
		Create(asset).Error
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// UpdateAssetOwner sets the owner and flips the asset back to active
func (s *pgStore) UpdateAssetOwner(ctx context.Context, tokenID int64, owner string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Asset{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"owner_address": domain.NormalizeAddress(owner),
			"status":        domain.AssetStatusActive,
			"updated_at":    time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update asset owner: %w", err)
	}
	return nil
}

// MarkAssetBurned flips an asset to burned
func (s *pgStore) MarkAssetBurned(ctx context.Context, tokenID int64) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Asset{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"status":     domain.AssetStatusBurned,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark asset burned: %w", err)
	}
	return nil
}

// GetListing retrieves a listing by ID, nil when absent
func (s *pgStore) GetListing(ctx context.Context, id int64) (*schema.Listing, error) {
	var listing schema.Listing
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// GetListingByAsset retrieves the single listing row for an asset, nil when absent
func (s *pgStore) GetListingByAsset(ctx context.Context, assetID int64) (*schema.Listing, error) {
	var listing schema.Listing
	err := s.db.WithContext(ctx).Where("asset_id = ?", assetID).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing by asset: %w", err)
	}
	return &listing, nil
}

// ListActiveListings retrieves active listings with their assets, plus the total count
func (s *pgStore) ListActiveListings(ctx context.Context, filter ListingFilter) ([]*schema.Listing, int64, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.Listing{}).
		Where("status = ?", domain.ListingStatusActive)

	// Prices are decimal strings; compare numerically in SQL
	if filter.MinPrice != "" {
		query = query.Where("CAST(price AS numeric) >= CAST(? AS numeric)", filter.MinPrice)
	}
	if filter.MaxPrice != "" {
		query = query.Where("CAST(price AS numeric) <= CAST(? AS numeric)", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	switch filter.Sort {
	case "price_asc":
		query = query.Order("CAST(price AS numeric) ASC")
	case "price_desc":
		query = query.Order("CAST(price AS numeric) DESC")
	default:
		query = query.Order("updated_at DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var listings []*schema.Listing
	if err := query.Preload("Asset").Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list listings: %w", err)
	}

	return listings, total, nil
}

// CreateOrRecycleListing lists an asset, reviving a sold or cancelled row when one exists.
// An existing active row means the asset is already listed.
func (s *pgStore) CreateOrRecycleListing(ctx context.Context, assetID int64, seller string, price string) (*schema.Listing, error) {
	seller = domain.NormalizeAddress(seller)

	var result *schema.Listing
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing schema.Listing
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("asset_id = ?", assetID).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.Status == domain.ListingStatusActive {
				return domain.NewError(domain.ErrKindValidation, "asset is already listed", nil)
			}
			// Recycle: same row, fresh terms, buyer cleared
			updates := map[string]interface{}{
				"seller_address": seller,
				"buyer_address":  nil,
				"price":          price,
				"status":         domain.ListingStatusActive,
				"updated_at":     time.Now(),
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to recycle listing: %w", err)
			}
			existing.SellerAddress = seller
			existing.BuyerAddress = nil
			existing.Price = price
			existing.Status = domain.ListingStatusActive
			result = &existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			listing := schema.Listing{
				AssetID:       assetID,
				SellerAddress: seller,
				Price:         price,
				Status:        domain.ListingStatusActive,
			}
			if err := tx.Create(&listing).Error; err != nil {
				return fmt.Errorf("failed to create listing: %w", err)
			}
			result = &listing
			return nil
		default:
			return fmt.Errorf("failed to look up listing: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelListing flips an active listing to cancelled
func (s *pgStore) CancelListing(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).
		Model(&schema.Listing{}).
		Where("id = ? AND status = ?", id, domain.ListingStatusActive).
		Updates(map[string]interface{}{
			"status":     domain.ListingStatusCancelled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewError(domain.ErrKindNotFound, "active listing not found", nil)
	}
	return nil
}

// ListPurchases retrieves trade history for an address
func (s *pgStore) ListPurchases(ctx context.Context, address string, role PurchaseRole, limit, offset int) ([]*schema.Purchase, error) {
	address = domain.NormalizeAddress(address)

	query := s.db.WithContext(ctx).Model(&schema.Purchase{})
	switch role {
	case PurchaseRoleBuy:
		query = query.Where("buyer_address = ?", address)
	case PurchaseRoleSell:
		query = query.Where("seller_address = ?", address)
	default:
		query = query.Where("buyer_address = ? OR seller_address = ?", address, address)
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var purchases []*schema.Purchase
	if err := query.Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// CreateDrop inserts a pending loot drop
func (s *pgStore) CreateDrop(ctx context.Context, drop *schema.Drop) error {
	drop.UserAddress = domain.NormalizeAddress(drop.UserAddress)
	if err := s.db.WithContext(ctx).Create(drop).Error; err != nil {
		return fmt.Errorf("failed to create drop: %w", err)
	}
	return nil
}

// GetDrop retrieves a drop by ID, nil when absent
func (s *pgStore) GetDrop(ctx context.Context, id int64) (*schema.Drop, error) {
	var drop schema.Drop
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&drop).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get drop: %w", err)
	}
	return &drop, nil
}

// ListDrops retrieves an address's drops, optionally filtered by status
func (s *pgStore) ListDrops(ctx context.Context, address string, status domain.DropStatus, limit int) ([]*schema.Drop, error) {
	query := s.db.WithContext(ctx).
		Where("user_address = ?", domain.NormalizeAddress(address))
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var drops []*schema.Drop
	if err := query.Order("dropped_at DESC").Find(&drops).Error; err != nil {
		return nil, fmt.Errorf("failed to list drops: %w", err)
	}
	return drops, nil
}

// DropStats counts an address's drops per grade
func (s *pgStore) DropStats(ctx context.Context, address string) (map[string]int64, error) {
	var rows []struct {
		Grade string
		Count int64
	}
	err := s.db.WithContext(ctx).
		Model(&schema.Drop{}).
		Select("item_grade AS grade, COUNT(*) AS count").
		Where("user_address = ?", domain.NormalizeAddress(address)).
		Group("item_grade").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count drops: %w", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Grade] = row.Count
	}
	return stats, nil
}

// CountAssetsByOwner counts an address's active assets
func (s *pgStore) CountAssetsByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&schema.Asset{}).
		Where("owner_address = ? AND status = ?", domain.NormalizeAddress(owner), domain.AssetStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return count, nil
}

// ClaimDrop commits a claim atomically
func (s *pgStore) ClaimDrop(ctx context.Context, dropID int64, asset *schema.Asset) error {
	asset.OwnerAddress = domain.NormalizeAddress(asset.OwnerAddress)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&schema.Drop{}).
			Where("id = ? AND status = ?", dropID, domain.DropStatusPending).
			Updates(map[string]interface{}{
				"status":          domain.DropStatusClaimed,
				"minted_token_id": asset.TokenID,
				"updated_at":      time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim drop: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewError(domain.ErrKindValidation, "drop is no longer pending", nil)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoNothing: true,
		}).Create(asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}

		return nil
	})
}

// ListActiveShopItems retrieves active, in-stock catalog entries
func (s *pgStore) ListActiveShopItems(ctx context.Context) ([]*schema.ShopItem, error) {
	var items []*schema.ShopItem
	err := s.db.WithContext(ctx).
		Where("active = ? AND stock > 0", true).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shop items: %w", err)
	}
	return items, nil
}

// GetShopItem retrieves a catalog entry by ID, nil when absent
func (s *pgStore) GetShopItem(ctx context.Context, id int64) (*schema.ShopItem, error) {
	var item schema.ShopItem
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	return &item, nil
}

// CreateSettlementJob inserts a settlement job row
func (s *pgStore) CreateSettlementJob(ctx context.Context, job *schema.SettlementJob) error {
	job.BuyerAddress = domain.NormalizeAddress(job.BuyerAddress)
	job.SellerAddress = domain.NormalizeAddress(job.SellerAddress)
	if err := s.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create settlement job: %w", err)
	}
	return nil
}

// RecordSettlementPayment advances a job to payment_sent with the payment hash
func (s *pgStore) RecordSettlementPayment(ctx context.Context, jobID string, txHash string) error {
	return s.advanceJob(ctx, jobID, map[string]interface{}{
		"step":            schema.SettlementStepPaymentSent,
		"payment_tx_hash": txHash,
	})
}

// RecordSettlementDelivery advances a job to delivered with the delivery hash and token ID
func (s *pgStore) RecordSettlementDelivery(ctx context.Context, jobID string, txHash string, tokenID int64) error {
	return s.advanceJob(ctx, jobID, map[string]interface{}{
		"step":             schema.SettlementStepDelivered,
		"delivery_tx_hash": txHash,
		"token_id":         tokenID,
	})
}

// FailSettlementJob marks a job failed with a terminal reason
func (s *pgStore) FailSettlementJob(ctx context.Context, jobID string, reason string) error {
	return s.advanceJob(ctx, jobID, map[string]interface{}{
		"step":        schema.SettlementStepFailed,
		"fail_reason": reason,
	})
}

func (s *pgStore) advanceJob(ctx context.Context, jobID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	err := s.db.WithContext(ctx).
		Model(&schema.SettlementJob{}).
		Where("id = ?", jobID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to advance settlement job: %w", err)
	}
	return nil
}

// CompletePeerSettlement commits a peer-to-peer trade atomically
func (s *pgStore) CompletePeerSettlement(ctx context.Context, jobID string, listingID int64, purchase *schema.Purchase) error {
	purchase.BuyerAddress = domain.NormalizeAddress(purchase.BuyerAddress)
	purchase.SellerAddress = domain.NormalizeAddress(purchase.SellerAddress)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&schema.Listing{}).
			Where("id = ? AND status = ?", listingID, domain.ListingStatusActive).
			Updates(map[string]interface{}{
				"status":        domain.ListingStatusSold,
				"buyer_address": purchase.BuyerAddress,
				"updated_at":    now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to mark listing sold: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewError(domain.ErrKindNotFound, "active listing not found", nil)
		}

		if err := tx.Model(&schema.Asset{}).
			Where("token_id = ?", purchase.TokenID).
			Updates(map[string]interface{}{
				"owner_address": purchase.BuyerAddress,
				"updated_at":    now,
			}).Error; err != nil {
			return fmt.Errorf("failed to move asset owner: %w", err)
		}

		if err := tx.Create(purchase).Error; err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		if err := tx.Model(&schema.SettlementJob{}).
			Where("id = ?", jobID).
			Updates(map[string]interface{}{
				"step":       schema.SettlementStepRecorded,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to close settlement job: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// CompleteShopSettlement commits a shop sale atomically
func (s *pgStore) CompleteShopSettlement(ctx context.Context, jobID string, itemID int64, asset *schema.Asset, purchase *schema.Purchase) error {
	asset.OwnerAddress = domain.NormalizeAddress(asset.OwnerAddress)
	purchase.BuyerAddress = domain.NormalizeAddress(purchase.BuyerAddress)
	purchase.SellerAddress = domain.NormalizeAddress(purchase.SellerAddress)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		res := tx.Model(&schema.ShopItem{}).
			Where("id = ? AND stock > 0", itemID).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock - 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.NewError(domain.ErrKindValidation, "shop item out of stock", nil)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoNothing: true,
		}).Create(asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}

		if err := tx.Create(purchase).Error; err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		if err := tx.Model(&schema.SettlementJob{}).
			Where("id = ?", jobID).
			Updates(map[string]interface{}{
				"step":       schema.SettlementStepRecorded,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to close settlement job: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
