package rest_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kquest/marketplace-core/internal/api/middleware"
	"github.com/kquest/marketplace-core/internal/api/rest"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/game"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/mocks"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

const (
	testCaller = "0x4444444444444444444444444444444444444444"
	testOther  = "0x6666666666666666666666666666666666666666"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testHandlerMocks struct {
	ctrl       *gomock.Controller
	db         *mocks.MockStore
	gw         *mocks.MockGateway
	relay      *mocks.MockRelay
	reconciler *mocks.MockService
	settler    *mocks.MockOrchestrator
	tokenIDs   *mocks.MockTokenIDSource
	game       *mocks.MockGameService
	handler    *rest.Handler
}

func setupTestHandler(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)

	tm := &testHandlerMocks{
		ctrl:       ctrl,
		db:         mocks.NewMockStore(ctrl),
		gw:         mocks.NewMockGateway(ctrl),
		relay:      mocks.NewMockRelay(ctrl),
		reconciler: mocks.NewMockService(ctrl),
		settler:    mocks.NewMockOrchestrator(ctrl),
		tokenIDs:   mocks.NewMockTokenIDSource(ctrl),
		game:       mocks.NewMockGameService(ctrl),
	}

	tm.handler = rest.NewHandler(tm.db, tm.gw, tm.relay, tm.reconciler, tm.settler, tm.tokenIDs, tm.game)

	return tm
}

// testContext builds an authenticated gin context around a JSON request
func testContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.AUTH_ADDRESS_KEY, testCaller)

	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPurchase_Success(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.settler.EXPECT().
		PurchaseListing(gomock.Any(), gomock.Any()).
		Return(&domain.SettlementResult{
			Success:        true,
			TokenID:        42,
			PaymentTxHash:  "0xpay",
			DeliveryTxHash: "0xdeliver",
		}, nil)

	c, w := testContext(t, http.MethodPost, "/api/marketplace/purchase", gin.H{
		"listing_id": 5,
		"request": gin.H{
			"from":  testCaller,
			"to":    testOther,
			"value": "0",
			"gas":   "100000",
			"nonce": "5",
			"data":  "0x",
		},
		"signature": "0x1234",
	})
	tm.handler.Purchase(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(42), body["token_id"])
}

func TestPurchase_CriticalSettlementResponse(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.settler.EXPECT().
		PurchaseListing(gomock.Any(), gomock.Any()).
		Return(&domain.SettlementResult{Critical: true, PaymentTxHash: "0xpay"},
			domain.NewCriticalSettlementError("payment confirmed but asset delivery failed", "0xpay", errors.New("transfer reverted")))

	c, w := testContext(t, http.MethodPost, "/api/marketplace/purchase", gin.H{
		"listing_id": 5,
		"request": gin.H{
			"from":  testCaller,
			"to":    testOther,
			"value": "0",
			"gas":   "100000",
			"nonce": "5",
			"data":  "0x",
		},
		"signature": "0x1234",
	})
	tm.handler.Purchase(c)

	// The critical flag and payment hash must reach the client
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["critical"])
	assert.Equal(t, "0xpay", body["payment_tx_hash"])
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "critical_settlement", errDetail["code"])
}

func TestPurchase_MalformedSignatureEncoding(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	c, w := testContext(t, http.MethodPost, "/api/marketplace/purchase", gin.H{
		"listing_id": 5,
		"request": gin.H{
			"from":  testCaller,
			"to":    testOther,
			"value": "0",
			"gas":   "100000",
			"nonce": "5",
			"data":  "0x",
		},
		"signature": "zzzz",
	})
	tm.handler.Purchase(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPurchase_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        domain.NewError(domain.ErrKindValidation, "listing is not active", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_failed",
		},
		{
			name:       "insufficient funds",
			err:        domain.NewError(domain.ErrKindInsufficientFunds, "balance 10 is below price 1000", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "insufficient_funds",
		},
		{
			name:       "signature invalid",
			err:        domain.NewError(domain.ErrKindSignatureInvalid, "forwarder rejected the signature (stale nonce or wrong signer)", nil),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "signature_invalid",
		},
		{
			name:       "not found",
			err:        domain.NewError(domain.ErrKindNotFound, "listing not found", nil),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "ledger call",
			err:        domain.NewError(domain.ErrKindLedgerCall, "rpc unreachable", nil),
			wantStatus: http.StatusBadGateway,
			wantCode:   "ledger_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestHandler(t)
			defer tm.ctrl.Finish()

			tm.settler.EXPECT().
				PurchaseListing(gomock.Any(), gomock.Any()).
				Return(nil, tt.err)

			c, w := testContext(t, http.MethodPost, "/api/marketplace/purchase", gin.H{
				"listing_id": 5,
				"request": gin.H{
					"from":  testCaller,
					"to":    testOther,
					"value": "0",
					"gas":   "100000",
					"nonce": "5",
					"data":  "0x",
				},
				"signature": "0x1234",
			})
			tm.handler.Purchase(c)

			require.Equal(t, tt.wantStatus, w.Code)
			body := decodeBody(t, w)
			errDetail := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, errDetail["code"])
		})
	}
}

func TestGetOwnedAssets_ForbiddenForOtherAddress(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	c, w := testContext(t, http.MethodGet, "/api/marketplace/nfts/"+testOther, nil)
	c.Params = gin.Params{{Key: "address", Value: testOther}}
	tm.handler.GetOwnedAssets(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetOwnedAssets_SyncFailureServesStoreView(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.reconciler.EXPECT().
		SyncAddress(gomock.Any(), testCaller, false).
		Return(nil, domain.NewError(domain.ErrKindLedgerCall, "rpc unreachable", nil))

	tm.db.EXPECT().
		GetAssetsByOwner(gomock.Any(), testCaller).
		Return([]*schema.Asset{
			{TokenID: 42, OwnerAddress: testCaller, MetadataURI: "ipfs://QmMeta", Status: domain.AssetStatusActive},
		}, nil)
	tm.db.EXPECT().GetListingByAsset(gomock.Any(), int64(42)).Return(nil, nil)

	c, w := testContext(t, http.MethodGet, "/api/marketplace/nfts/"+testCaller+"?sync=true", nil)
	c.Params = gin.Params{{Key: "address", Value: testCaller}}
	tm.handler.GetOwnedAssets(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assets := body["assets"].([]interface{})
	require.Len(t, assets, 1)
	assert.NotContains(t, body, "sync")
}

func TestGetOwnedAssets_AttachesActiveListing(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.db.EXPECT().
		GetAssetsByOwner(gomock.Any(), testCaller).
		Return([]*schema.Asset{
			{TokenID: 42, OwnerAddress: testCaller, Status: domain.AssetStatusActive},
		}, nil)
	tm.db.EXPECT().
		GetListingByAsset(gomock.Any(), int64(42)).
		Return(&schema.Listing{ID: 5, AssetID: 42, SellerAddress: testCaller, Price: "1000", Status: domain.ListingStatusActive}, nil)

	c, w := testContext(t, http.MethodGet, "/api/marketplace/nfts/"+testCaller, nil)
	c.Params = gin.Params{{Key: "address", Value: testCaller}}
	tm.handler.GetOwnedAssets(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assets := body["assets"].([]interface{})
	require.Len(t, assets, 1)
	listing := assets[0].(map[string]interface{})["listing"].(map[string]interface{})
	assert.Equal(t, float64(5), listing["id"])
	assert.Equal(t, "1000", listing["price"])
}

func TestCreateListing_Success(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gw.EXPECT().VerifyOwnership(gomock.Any(), int64(42), testCaller).Return(true, nil)
	tm.db.EXPECT().GetAsset(gomock.Any(), int64(42)).Return(&schema.Asset{
		TokenID:      42,
		OwnerAddress: testCaller,
		Status:       domain.AssetStatusActive,
	}, nil)
	tm.db.EXPECT().
		CreateOrRecycleListing(gomock.Any(), int64(42), testCaller, "1000").
		Return(&schema.Listing{ID: 5, AssetID: 42, SellerAddress: testCaller, Price: "1000", Status: domain.ListingStatusActive}, nil)

	c, w := testContext(t, http.MethodPost, "/api/marketplace/listings", gin.H{
		"token_id": 42,
		"price":    "1000",
	})
	tm.handler.CreateListing(c)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	listing := body["listing"].(map[string]interface{})
	assert.Equal(t, float64(42), listing["asset_id"])
}

func TestCreateListing_NotOwnerRepairsDriftAndRejects(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gw.EXPECT().VerifyOwnership(gomock.Any(), int64(42), testCaller).Return(false, nil)
	tm.gw.EXPECT().Owner(gomock.Any(), int64(42)).Return(testOther, nil)
	tm.db.EXPECT().UpdateAssetOwner(gomock.Any(), int64(42), testOther).Return(nil)

	c, w := testContext(t, http.MethodPost, "/api/marketplace/listings", gin.H{
		"token_id": 42,
		"price":    "1000",
	})
	tm.handler.CreateListing(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateListing_BurnedTokenRepairsDriftAndRejects(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.gw.EXPECT().VerifyOwnership(gomock.Any(), int64(42), testCaller).Return(false, nil)
	tm.gw.EXPECT().
		Owner(gomock.Any(), int64(42)).
		Return("", domain.NewError(domain.ErrKindNotFound, "token 42 does not exist", nil))
	tm.db.EXPECT().MarkAssetBurned(gomock.Any(), int64(42)).Return(nil)

	c, w := testContext(t, http.MethodPost, "/api/marketplace/listings", gin.H{
		"token_id": 42,
		"price":    "1000",
	})
	tm.handler.CreateListing(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateListing_InvalidPrice(t *testing.T) {
	tests := []string{"0", "-5", "1.5", "abc"}

	for _, price := range tests {
		t.Run(price, func(t *testing.T) {
			tm := setupTestHandler(t)
			defer tm.ctrl.Finish()

			c, w := testContext(t, http.MethodPost, "/api/marketplace/listings", gin.H{
				"token_id": 42,
				"price":    price,
			})
			tm.handler.CreateListing(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestCancelListing_OnlySellerMayCancel(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.db.EXPECT().GetListing(gomock.Any(), int64(5)).Return(&schema.Listing{
		ID:            5,
		AssetID:       42,
		SellerAddress: testOther,
		Status:        domain.ListingStatusActive,
	}, nil)

	c, w := testContext(t, http.MethodDelete, "/api/marketplace/listings/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	tm.handler.CancelListing(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCancelListing_Success(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.db.EXPECT().GetListing(gomock.Any(), int64(5)).Return(&schema.Listing{
		ID:            5,
		AssetID:       42,
		SellerAddress: testCaller,
		Status:        domain.ListingStatusActive,
	}, nil)
	tm.db.EXPECT().CancelListing(gomock.Any(), int64(5)).Return(nil)

	c, w := testContext(t, http.MethodDelete, "/api/marketplace/listings/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	tm.handler.CancelListing(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrepareMetaTx_ForbiddenForOtherAddress(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	c, w := testContext(t, http.MethodPost, "/api/marketplace/meta-tx/prepare", gin.H{
		"from":   testOther,
		"to":     testCaller,
		"amount": "1000",
	})
	tm.handler.PrepareMetaTx(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetHistory_InvalidRole(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	c, w := testContext(t, http.MethodGet, "/api/marketplace/history/"+testCaller+"?role=trades", nil)
	c.Params = gin.Params{{Key: "address", Value: testCaller}}
	tm.handler.GetHistory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMintAsset_AllocatesTokenIDWhenOmitted(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.tokenIDs.EXPECT().GenerateTokenID(gomock.Any()).Return(int64(777), nil)
	tm.gw.EXPECT().
		Mint(gomock.Any(), testOther, int64(777), "ipfs://QmMeta").
		Return(&domain.MintResult{TokenID: 777, MintTxHash: "0xmint", TransferTxHash: "0xhandoff"}, nil)
	tm.db.EXPECT().CreateAsset(gomock.Any(), gomock.Any()).Return(nil)

	c, w := testContext(t, http.MethodPost, "/api/nft/mint", gin.H{
		"to":           testOther,
		"metadata_uri": "ipfs://QmMeta",
	})
	tm.handler.MintAsset(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(777), body["token_id"])
}

func TestGetTransactionStatus_InvalidHash(t *testing.T) {
	tests := []string{"0x123", "abcdef", ""}

	for _, hash := range tests {
		t.Run("hash "+hash, func(t *testing.T) {
			tm := setupTestHandler(t)
			defer tm.ctrl.Finish()

			c, w := testContext(t, http.MethodGet, "/api/nft/transaction/x", nil)
			c.Params = gin.Params{{Key: "txHash", Value: hash}}
			tm.handler.GetTransactionStatus(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestMonsterKill_ReturnsOutcome(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		RollDrop(gomock.Any(), testCaller, "dragon", 12).
		Return(&game.DropOutcome{
			Dropped: true,
			Drop: &schema.Drop{
				ID:        42,
				ItemName:  "Dragon Scale",
				ItemGrade: "Rare",
				Status:    domain.DropStatusPending,
			},
		}, nil)

	c, w := testContext(t, http.MethodPost, "/api/game/monster-kill", gin.H{
		"monster_type":  "dragon",
		"monster_level": 12,
	})
	tm.handler.MonsterKill(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["dropped"])
}

func TestMonsterKill_MissingMonsterType(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	c, w := testContext(t, http.MethodPost, "/api/game/monster-kill", gin.H{
		"monster_level": 3,
	})
	tm.handler.MonsterKill(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDrops_FiltersByStatus(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		ListDrops(gomock.Any(), testCaller, domain.DropStatusPending).
		Return([]*schema.Drop{
			{ID: 7, MonsterType: "orc", ItemName: "Battle Axe", ItemGrade: "Rare", Status: domain.DropStatusPending},
		}, nil)

	c, w := testContext(t, http.MethodGet, "/api/game/drops?status=pending", nil)
	tm.handler.ListDrops(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	drops := body["drops"].([]interface{})
	require.Len(t, drops, 1)
	assert.Equal(t, "Battle Axe", drops[0].(map[string]interface{})["item_name"])
}

func TestGetPlayerStats_ReturnsSummary(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		PlayerStats(gomock.Any(), testCaller).
		Return(&domain.PlayerStats{AssetCount: 3, TotalDrops: 7}, nil)

	c, w := testContext(t, http.MethodGet, "/api/game/stats", nil)
	tm.handler.GetPlayerStats(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(3), body["asset_count"])
	assert.Equal(t, float64(7), body["total_drops"])
}

func TestClaimDrop_Success(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		ClaimDrop(gomock.Any(), testCaller, int64(7)).
		Return(&domain.ClaimResult{
			Success:     true,
			DropID:      7,
			TokenID:     777,
			MintTxHash:  "0xmint",
			MetadataURI: "ipfs://QmMeta",
		}, nil)

	c, w := testContext(t, http.MethodPost, "/api/game/claim-drop", gin.H{"drop_id": 7})
	tm.handler.ClaimDrop(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(777), body["token_id"])
}

func TestClaimDrop_NotFound(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		ClaimDrop(gomock.Any(), testCaller, int64(99)).
		Return(nil, domain.NewError(domain.ErrKindNotFound, "drop not found", nil))

	c, w := testContext(t, http.MethodPost, "/api/game/claim-drop", gin.H{"drop_id": 99})
	tm.handler.ClaimDrop(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimDrop_OperatorHeldReportsPartialState(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.game.EXPECT().
		ClaimDrop(gomock.Any(), testCaller, int64(7)).
		Return(&domain.ClaimResult{
			DropID:       7,
			TokenID:      777,
			MintTxHash:   "0xmint",
			OperatorHeld: true,
		}, domain.NewError(domain.ErrKindLedgerCall, "handoff failed", errors.New("revert")))

	c, w := testContext(t, http.MethodPost, "/api/game/claim-drop", gin.H{"drop_id": 7})
	tm.handler.ClaimDrop(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, true, body["operator_held"])
}

func TestGetInventory_ReturnsOwnedAssets(t *testing.T) {
	tm := setupTestHandler(t)
	defer tm.ctrl.Finish()

	tm.db.EXPECT().
		GetAssetsByOwner(gomock.Any(), testCaller).
		Return([]*schema.Asset{
			{TokenID: 1, OwnerAddress: testCaller, Status: domain.AssetStatusActive},
			{TokenID: 2, OwnerAddress: testCaller, Status: domain.AssetStatusActive},
		}, nil)

	c, w := testContext(t, http.MethodGet, "/api/game/inventory", nil)
	tm.handler.GetInventory(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["inventory"], 2)
}
