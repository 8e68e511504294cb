package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

const (
	testSeller = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testBuyer  = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testShop   = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestAsset(tokenID int64, owner string) *schema.Asset {
	return &schema.Asset{
		TokenID:      tokenID,
		OwnerAddress: owner,
		MetadataURI:  fmt.Sprintf("ipfs://QmAsset%d", tokenID),
		MintTxHash:   fmt.Sprintf("0xmint%d", tokenID),
		Status:       domain.AssetStatusActive,
	}
}

func buildTestShopItem(stock int) *schema.ShopItem {
	return &schema.ShopItem{
		Name:        "Starter Sword",
		Description: "A plain blade for new players",
		Price:       "1000",
		Stock:       stock,
		Rarity:      "Common",
		Active:      true,
	}
}

func buildTestJob(id string, kind domain.PurchaseKind) *schema.SettlementJob {
	return &schema.SettlementJob{
		ID:            id,
		Kind:          kind,
		Step:          schema.SettlementStepPaymentPending,
		BuyerAddress:  testBuyer,
		SellerAddress: testSeller,
		Price:         "1000",
	}
}

func buildTestDrop(owner, monsterType, grade string) *schema.Drop {
	return &schema.Drop{
		UserAddress:  owner,
		MonsterType:  monsterType,
		MonsterLevel: 5,
		ItemName:     "Orc Tusk",
		ItemGrade:    grade,
		Status:       domain.DropStatusPending,
	}
}

func seedAsset(t *testing.T, store Store, tokenID int64, owner string) *schema.Asset {
	asset := buildTestAsset(tokenID, owner)
	require.NoError(t, store.CreateAsset(context.Background(), asset))
	return asset
}

func seedListing(t *testing.T, store Store, tokenID int64, seller, price string) *schema.Listing {
	listing, err := store.CreateOrRecycleListing(context.Background(), tokenID, seller, price)
	require.NoError(t, err)
	return listing
}

// =============================================================================
// Test: Assets
// =============================================================================

func testAssetLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		seedAsset(t, store, 1, testSeller)

		asset, err := store.GetAsset(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, asset)
		assert.Equal(t, testSeller, asset.OwnerAddress)
		assert.Equal(t, domain.AssetStatusActive, asset.Status)
	})

	t.Run("missing asset is nil, not an error", func(t *testing.T) {
		asset, err := store.GetAsset(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, asset)
	})

	t.Run("owner is stored lowercase", func(t *testing.T) {
		seedAsset(t, store, 2, "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")

		asset, err := store.GetAsset(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, testSeller, asset.OwnerAddress)
	})

	t.Run("duplicate token id is ignored", func(t *testing.T) {
		seedAsset(t, store, 3, testSeller)
		require.NoError(t, store.CreateAsset(ctx, buildTestAsset(3, testBuyer)))

		asset, err := store.GetAsset(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, testSeller, asset.OwnerAddress)
	})

	t.Run("burned assets leave the owner view and the count", func(t *testing.T) {
		seedAsset(t, store, 4, testBuyer)
		seedAsset(t, store, 5, testBuyer)
		require.NoError(t, store.MarkAssetBurned(ctx, 5))

		assets, err := store.GetAssetsByOwner(ctx, testBuyer)
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, int64(4), assets[0].TokenID)

		count, err := store.CountAssetsByOwner(ctx, testBuyer)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("update owner reactivates the row", func(t *testing.T) {
		seedAsset(t, store, 6, testSeller)
		require.NoError(t, store.MarkAssetBurned(ctx, 6))
		require.NoError(t, store.UpdateAssetOwner(ctx, 6, testBuyer))

		asset, err := store.GetAsset(ctx, 6)
		require.NoError(t, err)
		assert.Equal(t, testBuyer, asset.OwnerAddress)
		assert.Equal(t, domain.AssetStatusActive, asset.Status)
	})
}

// =============================================================================
// Test: CreateOrRecycleListing
// =============================================================================

func testCreateOrRecycleListing(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("first listing creates a fresh row", func(t *testing.T) {
		seedAsset(t, store, 10, testSeller)
		listing := seedListing(t, store, 10, testSeller, "500")

		assert.Equal(t, int64(10), listing.AssetID)
		assert.Equal(t, testSeller, listing.SellerAddress)
		assert.Equal(t, "500", listing.Price)
		assert.Equal(t, domain.ListingStatusActive, listing.Status)
		assert.Nil(t, listing.BuyerAddress)
	})

	t.Run("an active listing cannot be listed again", func(t *testing.T) {
		seedAsset(t, store, 11, testSeller)
		seedListing(t, store, 11, testSeller, "500")

		_, err := store.CreateOrRecycleListing(ctx, 11, testSeller, "600")
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
	})

	t.Run("a cancelled listing recycles the same row", func(t *testing.T) {
		seedAsset(t, store, 12, testSeller)
		original := seedListing(t, store, 12, testSeller, "500")
		require.NoError(t, store.CancelListing(ctx, original.ID))

		recycled, err := store.CreateOrRecycleListing(ctx, 12, testBuyer, "900")
		require.NoError(t, err)
		assert.Equal(t, original.ID, recycled.ID)
		assert.Equal(t, testBuyer, recycled.SellerAddress)
		assert.Equal(t, "900", recycled.Price)
		assert.Equal(t, domain.ListingStatusActive, recycled.Status)
	})

	t.Run("a sold listing recycles with the buyer cleared", func(t *testing.T) {
		seedAsset(t, store, 13, testSeller)
		original := seedListing(t, store, 13, testSeller, "500")

		job := buildTestJob("job-recycle", domain.PurchaseKindPeerToPeer)
		require.NoError(t, store.CreateSettlementJob(ctx, job))
		require.NoError(t, store.CompletePeerSettlement(ctx, job.ID, original.ID, &schema.Purchase{
			Kind:          domain.PurchaseKindPeerToPeer,
			TokenID:       13,
			BuyerAddress:  testBuyer,
			SellerAddress: testSeller,
			Price:         "500",
			PaymentTxHash: "0xpay13",
		}))

		sold, err := store.GetListing(ctx, original.ID)
		require.NoError(t, err)
		require.NotNil(t, sold.BuyerAddress)

		recycled, err := store.CreateOrRecycleListing(ctx, 13, testBuyer, "800")
		require.NoError(t, err)
		assert.Equal(t, original.ID, recycled.ID)
		assert.Nil(t, recycled.BuyerAddress)

		reloaded, err := store.GetListing(ctx, original.ID)
		require.NoError(t, err)
		assert.Nil(t, reloaded.BuyerAddress)
		assert.Equal(t, domain.ListingStatusActive, reloaded.Status)
	})
}

// =============================================================================
// Test: CancelListing
// =============================================================================

func testCancelListing(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("cancel flips an active listing", func(t *testing.T) {
		seedAsset(t, store, 20, testSeller)
		listing := seedListing(t, store, 20, testSeller, "500")

		require.NoError(t, store.CancelListing(ctx, listing.ID))

		reloaded, err := store.GetListing(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ListingStatusCancelled, reloaded.Status)
	})

	t.Run("cancelling a non-active listing is not found", func(t *testing.T) {
		seedAsset(t, store, 21, testSeller)
		listing := seedListing(t, store, 21, testSeller, "500")
		require.NoError(t, store.CancelListing(ctx, listing.ID))

		err := store.CancelListing(ctx, listing.ID)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindNotFound))
	})
}

// =============================================================================
// Test: ListActiveListings
// =============================================================================

func testListActiveListings(t *testing.T, store Store) {
	ctx := context.Background()

	for i, price := range []string{"100", "300", "200"} {
		tokenID := int64(30 + i)
		seedAsset(t, store, tokenID, testSeller)
		seedListing(t, store, tokenID, testSeller, price)
	}

	t.Run("price filter compares numerically", func(t *testing.T) {
		listings, total, err := store.ListActiveListings(ctx, ListingFilter{MinPrice: "150"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, listings, 2)
	})

	t.Run("price ascending sort", func(t *testing.T) {
		listings, _, err := store.ListActiveListings(ctx, ListingFilter{Sort: "price_asc"})
		require.NoError(t, err)
		require.Len(t, listings, 3)
		assert.Equal(t, "100", listings[0].Price)
		assert.Equal(t, "300", listings[2].Price)
	})

	t.Run("pagination respects limit and offset", func(t *testing.T) {
		listings, total, err := store.ListActiveListings(ctx, ListingFilter{Sort: "price_asc", Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, listings, 1)
		assert.Equal(t, "300", listings[0].Price)
	})
}

// =============================================================================
// Test: CompletePeerSettlement
// =============================================================================

func testCompletePeerSettlement(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("commit moves listing, asset, purchase and job together", func(t *testing.T) {
		seedAsset(t, store, 40, testSeller)
		listing := seedListing(t, store, 40, testSeller, "500")

		job := buildTestJob("job-peer-1", domain.PurchaseKindPeerToPeer)
		require.NoError(t, store.CreateSettlementJob(ctx, job))
		require.NoError(t, store.RecordSettlementPayment(ctx, job.ID, "0xpay40"))
		require.NoError(t, store.RecordSettlementDelivery(ctx, job.ID, "0xdeliver40", 40))

		require.NoError(t, store.CompletePeerSettlement(ctx, job.ID, listing.ID, &schema.Purchase{
			Kind:           domain.PurchaseKindPeerToPeer,
			TokenID:        40,
			BuyerAddress:   testBuyer,
			SellerAddress:  testSeller,
			Price:          "500",
			PaymentTxHash:  "0xpay40",
			DeliveryTxHash: "0xdeliver40",
		}))

		reloaded, err := store.GetListing(ctx, listing.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ListingStatusSold, reloaded.Status)
		require.NotNil(t, reloaded.BuyerAddress)
		assert.Equal(t, testBuyer, *reloaded.BuyerAddress)

		asset, err := store.GetAsset(ctx, 40)
		require.NoError(t, err)
		assert.Equal(t, testBuyer, asset.OwnerAddress)

		purchases, err := store.ListPurchases(ctx, testBuyer, PurchaseRoleBuy, 10, 0)
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, "0xpay40", purchases[0].PaymentTxHash)
	})

	t.Run("a non-active listing aborts the whole commit", func(t *testing.T) {
		seedAsset(t, store, 41, testSeller)
		listing := seedListing(t, store, 41, testSeller, "500")
		require.NoError(t, store.CancelListing(ctx, listing.ID))

		job := buildTestJob("job-peer-2", domain.PurchaseKindPeerToPeer)
		require.NoError(t, store.CreateSettlementJob(ctx, job))

		err := store.CompletePeerSettlement(ctx, job.ID, listing.ID, &schema.Purchase{
			Kind:          domain.PurchaseKindPeerToPeer,
			TokenID:       41,
			BuyerAddress:  testBuyer,
			SellerAddress: testSeller,
			Price:         "500",
			PaymentTxHash: "0xpay41",
		})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindNotFound))

		// The asset stays with the seller and no purchase is recorded
		asset, getErr := store.GetAsset(ctx, 41)
		require.NoError(t, getErr)
		assert.Equal(t, testSeller, asset.OwnerAddress)

		purchases, listErr := store.ListPurchases(ctx, testBuyer, PurchaseRoleBuy, 10, 0)
		require.NoError(t, listErr)
		assert.Empty(t, purchases)
	})
}

// =============================================================================
// Test: CompleteShopSettlement
// =============================================================================

func testCompleteShopSettlement(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("commit decrements stock and inserts the minted asset", func(t *testing.T) {
		item := buildTestShopItem(2)
		require.NoError(t, testDBCreate(store, item))

		job := buildTestJob("job-shop-1", domain.PurchaseKindShop)
		job.SellerAddress = testShop
		require.NoError(t, store.CreateSettlementJob(ctx, job))

		require.NoError(t, store.CompleteShopSettlement(ctx, job.ID, item.ID,
			buildTestAsset(50, testBuyer),
			&schema.Purchase{
				Kind:          domain.PurchaseKindShop,
				TokenID:       50,
				BuyerAddress:  testBuyer,
				SellerAddress: testShop,
				Price:         "1000",
				PaymentTxHash: "0xpay50",
			}))

		reloaded, err := store.GetShopItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.Stock)

		asset, err := store.GetAsset(ctx, 50)
		require.NoError(t, err)
		require.NotNil(t, asset)
		assert.Equal(t, testBuyer, asset.OwnerAddress)
	})

	t.Run("an out-of-stock item aborts the whole commit", func(t *testing.T) {
		item := buildTestShopItem(0)
		require.NoError(t, testDBCreate(store, item))

		job := buildTestJob("job-shop-2", domain.PurchaseKindShop)
		require.NoError(t, store.CreateSettlementJob(ctx, job))

		err := store.CompleteShopSettlement(ctx, job.ID, item.ID,
			buildTestAsset(51, testBuyer),
			&schema.Purchase{
				Kind:          domain.PurchaseKindShop,
				TokenID:       51,
				BuyerAddress:  testBuyer,
				SellerAddress: testShop,
				Price:         "1000",
				PaymentTxHash: "0xpay51",
			})
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))

		asset, getErr := store.GetAsset(ctx, 51)
		require.NoError(t, getErr)
		assert.Nil(t, asset)
	})

	t.Run("out-of-stock items leave the catalog view", func(t *testing.T) {
		inStock := buildTestShopItem(1)
		soldOut := buildTestShopItem(0)
		require.NoError(t, testDBCreate(store, inStock))
		require.NoError(t, testDBCreate(store, soldOut))

		items, err := store.ListActiveShopItems(ctx)
		require.NoError(t, err)
		for _, item := range items {
			assert.Greater(t, item.Stock, 0)
		}
	})
}

// testDBCreate inserts a row through the store's gorm handle. Shop items
// are seeded by operators, not the API, so the Store interface has no
// insert for them.
func testDBCreate(store Store, value interface{}) error {
	return store.(*pgStore).db.Create(value).Error
}

// =============================================================================
// Test: Settlement job steps
// =============================================================================

func testSettlementJobSteps(t *testing.T, store Store) {
	ctx := context.Background()

	job := buildTestJob("job-steps", domain.PurchaseKindPeerToPeer)
	require.NoError(t, store.CreateSettlementJob(ctx, job))

	require.NoError(t, store.RecordSettlementPayment(ctx, job.ID, "0xpay"))
	require.NoError(t, store.RecordSettlementDelivery(ctx, job.ID, "0xdeliver", 60))
	require.NoError(t, store.FailSettlementJob(ctx, job.ID, "asset transfer reverted"))

	var reloaded schema.SettlementJob
	require.NoError(t, store.(*pgStore).db.Where("id = ?", job.ID).First(&reloaded).Error)
	assert.Equal(t, schema.SettlementStepFailed, reloaded.Step)
	assert.Equal(t, "0xpay", reloaded.PaymentTxHash)
	assert.Equal(t, "0xdeliver", reloaded.DeliveryTxHash)
	assert.Equal(t, int64(60), reloaded.TokenID)
	assert.Equal(t, "asset transfer reverted", reloaded.FailReason)
}

// =============================================================================
// Test: Drops
// =============================================================================

func testDrops(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and list by status", func(t *testing.T) {
		pending := buildTestDrop(testBuyer, "orc", "Rare")
		require.NoError(t, store.CreateDrop(ctx, pending))
		require.NotZero(t, pending.ID)

		claimed := buildTestDrop(testBuyer, "goblin", "Common")
		require.NoError(t, store.CreateDrop(ctx, claimed))
		require.NoError(t, store.ClaimDrop(ctx, claimed.ID, buildTestAsset(70, testBuyer)))

		drops, err := store.ListDrops(ctx, testBuyer, domain.DropStatusPending, 10)
		require.NoError(t, err)
		require.Len(t, drops, 1)
		assert.Equal(t, pending.ID, drops[0].ID)

		all, err := store.ListDrops(ctx, testBuyer, "", 10)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("stats group by grade", func(t *testing.T) {
		for _, grade := range []string{"Common", "Common", "Epic"} {
			require.NoError(t, store.CreateDrop(ctx, buildTestDrop(testSeller, "dragon", grade)))
		}

		stats, err := store.DropStats(ctx, testSeller)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats["Common"])
		assert.Equal(t, int64(1), stats["Epic"])
	})

	t.Run("claim records the minted token atomically", func(t *testing.T) {
		drop := buildTestDrop(testBuyer, "boss", "Legendary")
		require.NoError(t, store.CreateDrop(ctx, drop))

		require.NoError(t, store.ClaimDrop(ctx, drop.ID, buildTestAsset(71, testBuyer)))

		reloaded, err := store.GetDrop(ctx, drop.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DropStatusClaimed, reloaded.Status)
		require.NotNil(t, reloaded.MintedTokenID)
		assert.Equal(t, int64(71), *reloaded.MintedTokenID)

		asset, err := store.GetAsset(ctx, 71)
		require.NoError(t, err)
		require.NotNil(t, asset)
		assert.Equal(t, testBuyer, asset.OwnerAddress)
	})

	t.Run("a claimed drop cannot be claimed again", func(t *testing.T) {
		drop := buildTestDrop(testBuyer, "boss", "Epic")
		require.NoError(t, store.CreateDrop(ctx, drop))
		require.NoError(t, store.ClaimDrop(ctx, drop.ID, buildTestAsset(72, testBuyer)))

		err := store.ClaimDrop(ctx, drop.ID, buildTestAsset(73, testBuyer))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))

		// The second asset row was never inserted
		asset, getErr := store.GetAsset(ctx, 73)
		require.NoError(t, getErr)
		assert.Nil(t, asset)
	})
}

// =============================================================================
// Test: ListPurchases
// =============================================================================

func testListPurchases(t *testing.T, store Store) {
	ctx := context.Background()

	seed := []*schema.Purchase{
		{Kind: domain.PurchaseKindPeerToPeer, TokenID: 80, BuyerAddress: testBuyer, SellerAddress: testSeller, Price: "100", PaymentTxHash: "0xp80"},
		{Kind: domain.PurchaseKindShop, TokenID: 81, BuyerAddress: testBuyer, SellerAddress: testShop, Price: "200", PaymentTxHash: "0xp81"},
		{Kind: domain.PurchaseKindPeerToPeer, TokenID: 82, BuyerAddress: testSeller, SellerAddress: testBuyer, Price: "300", PaymentTxHash: "0xp82"},
	}
	for _, p := range seed {
		require.NoError(t, store.(*pgStore).db.Create(p).Error)
	}

	t.Run("buy side only", func(t *testing.T) {
		purchases, err := store.ListPurchases(ctx, testBuyer, PurchaseRoleBuy, 10, 0)
		require.NoError(t, err)
		assert.Len(t, purchases, 2)
	})

	t.Run("sell side only", func(t *testing.T) {
		purchases, err := store.ListPurchases(ctx, testBuyer, PurchaseRoleSell, 10, 0)
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, int64(82), purchases[0].TokenID)
	})

	t.Run("both sides by default", func(t *testing.T) {
		purchases, err := store.ListPurchases(ctx, testBuyer, PurchaseRoleAll, 10, 0)
		require.NoError(t, err)
		assert.Len(t, purchases, 3)
	})
}

// =============================================================================
// Runner
// =============================================================================

// RunStoreTests runs the full store suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"AssetLifecycle", testAssetLifecycle},
		{"CreateOrRecycleListing", testCreateOrRecycleListing},
		{"CancelListing", testCancelListing},
		{"ListActiveListings", testListActiveListings},
		{"CompletePeerSettlement", testCompletePeerSettlement},
		{"CompleteShopSettlement", testCompleteShopSettlement},
		{"SettlementJobSteps", testSettlementJobSteps},
		{"Drops", testDrops},
		{"ListPurchases", testListPurchases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
