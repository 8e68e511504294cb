package game_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/game"
	"github.com/kquest/marketplace-core/internal/ipfs"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/mocks"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

const (
	testPlayer   = "0x4444444444444444444444444444444444444444"
	testOperator = "0x3333333333333333333333333333333333333333"
)

func TestMain(m *testing.M) {
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

// scriptedRoller replays a fixed sequence of draws
type scriptedRoller struct {
	floats []float64
	ints   []int
}

func (r *scriptedRoller) Float() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRoller) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

type testGameMocks struct {
	ctrl     *gomock.Controller
	db       *mocks.MockStore
	gw       *mocks.MockGateway
	uploader *mocks.MockUploader
	tokenIDs *mocks.MockTokenIDSource
}

func setupTestGame(t *testing.T, roll game.Roller) (*testGameMocks, game.Service) {
	ctrl := gomock.NewController(t)

	tm := &testGameMocks{
		ctrl:     ctrl,
		db:       mocks.NewMockStore(ctrl),
		gw:       mocks.NewMockGateway(ctrl),
		uploader: mocks.NewMockUploader(ctrl),
		tokenIDs: mocks.NewMockTokenIDSource(ctrl),
	}

	svc := game.NewService(tm.db, tm.gw, tm.uploader, tm.tokenIDs, roll)
	return tm, svc
}

func pendingDrop() *schema.Drop {
	return &schema.Drop{
		ID:           7,
		UserAddress:  testPlayer,
		MonsterType:  "dragon",
		MonsterLevel: 12,
		ItemName:     "Dragon Scale",
		ItemGrade:    "Rare",
		Status:       domain.DropStatusPending,
	}
}

func TestRollDrop_MissedRollDropsNothing(t *testing.T) {
	// Goblin drop chance is 0.3; a draw at or above that misses
	tm, svc := setupTestGame(t, &scriptedRoller{floats: []float64{0.9}})
	defer tm.ctrl.Finish()

	outcome, err := svc.RollDrop(context.Background(), testPlayer, "goblin", 3)
	require.NoError(t, err)
	assert.False(t, outcome.Dropped)
	assert.Nil(t, outcome.Drop)
}

func TestRollDrop_HitPersistsPendingDrop(t *testing.T) {
	// Draws: 0.1 hits the dragon's 0.5 rate, 0.95 lands in the Epic
	// band of the cumulative grade distribution, item index 2
	tm, svc := setupTestGame(t, &scriptedRoller{floats: []float64{0.1, 0.95}, ints: []int{2}})
	defer tm.ctrl.Finish()

	tm.db.EXPECT().
		CreateDrop(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, drop *schema.Drop) error {
			drop.ID = 42
			return nil
		})

	outcome, err := svc.RollDrop(context.Background(), testPlayer, "dragon", 12)
	require.NoError(t, err)
	require.True(t, outcome.Dropped)
	require.NotNil(t, outcome.Drop)
	assert.Equal(t, int64(42), outcome.Drop.ID)
	assert.Equal(t, "Ancient Sword", outcome.Drop.ItemName)
	assert.Equal(t, "Epic", outcome.Drop.ItemGrade)
	assert.Equal(t, domain.DropStatusPending, outcome.Drop.Status)
	assert.Equal(t, 12, outcome.Drop.MonsterLevel)
}

func TestRollDrop_UnknownMonsterUsesDefaults(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{floats: []float64{0.15, 0.1}, ints: []int{0}})
	defer tm.ctrl.Finish()

	tm.db.EXPECT().CreateDrop(gomock.Any(), gomock.Any()).Return(nil)

	outcome, err := svc.RollDrop(context.Background(), testPlayer, "slime", 0)
	require.NoError(t, err)
	require.True(t, outcome.Dropped)
	assert.Equal(t, "Common Item", outcome.Drop.ItemName)
	assert.Equal(t, "Common", outcome.Drop.ItemGrade)
	// Levels below one are clamped
	assert.Equal(t, 1, outcome.Drop.MonsterLevel)
}

func TestRollDrop_InvalidAddress(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	_, err := svc.RollDrop(context.Background(), "not-an-address", "goblin", 1)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
}

func TestRollDrop_MissingMonsterType(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	_, err := svc.RollDrop(context.Background(), testPlayer, "", 1)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
}

func TestListDrops_RejectsUnknownStatus(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	_, err := svc.ListDrops(context.Background(), testPlayer, "minted")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
}

func TestListDrops_PassesFilterThrough(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	expected := []*schema.Drop{pendingDrop()}
	tm.db.EXPECT().
		ListDrops(gomock.Any(), testPlayer, domain.DropStatusPending, gomock.Any()).
		Return(expected, nil)

	drops, err := svc.ListDrops(context.Background(), testPlayer, domain.DropStatusPending)
	require.NoError(t, err)
	assert.Equal(t, expected, drops)
}

func TestPlayerStats_TotalsAcrossGrades(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	tm.db.EXPECT().CountAssetsByOwner(gomock.Any(), testPlayer).Return(int64(3), nil)
	tm.db.EXPECT().DropStats(gomock.Any(), testPlayer).
		Return(map[string]int64{"Common": 4, "Rare": 2, "Legendary": 1}, nil)

	stats, err := svc.PlayerStats(context.Background(), testPlayer)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.AssetCount)
	assert.Equal(t, int64(7), stats.TotalDrops)
	assert.Equal(t, int64(2), stats.GradeCounts["Rare"])
}

func TestClaimDrop_Success(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	drop := pendingDrop()
	tm.db.EXPECT().GetDrop(gomock.Any(), drop.ID).Return(drop, nil)
	tm.uploader.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, meta ipfs.AssetMetadata) (*ipfs.UploadResult, error) {
			assert.Equal(t, "Dragon Scale", meta.Name)
			assert.Equal(t, "Rare", meta.Rarity)
			return &ipfs.UploadResult{MetadataURI: "ipfs://QmMeta"}, nil
		})
	tm.tokenIDs.EXPECT().GenerateTokenID(gomock.Any()).Return(int64(777), nil)
	tm.gw.EXPECT().
		Mint(gomock.Any(), testPlayer, int64(777), "ipfs://QmMeta").
		Return(&domain.MintResult{TokenID: 777, MintTxHash: "0xmint", TransferTxHash: "0xhandoff"}, nil)
	tm.db.EXPECT().
		ClaimDrop(gomock.Any(), drop.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, asset *schema.Asset) error {
			assert.Equal(t, int64(777), asset.TokenID)
			assert.Equal(t, testPlayer, asset.OwnerAddress)
			assert.Equal(t, "0xmint", asset.MintTxHash)
			return nil
		})

	result, err := svc.ClaimDrop(context.Background(), testPlayer, drop.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(777), result.TokenID)
	assert.Equal(t, "ipfs://QmMeta", result.MetadataURI)
	assert.False(t, result.OperatorHeld)
}

func TestClaimDrop_OtherPlayersDropLooksMissing(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	drop := pendingDrop()
	drop.UserAddress = "0x6666666666666666666666666666666666666666"
	tm.db.EXPECT().GetDrop(gomock.Any(), drop.ID).Return(drop, nil)

	_, err := svc.ClaimDrop(context.Background(), testPlayer, drop.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestClaimDrop_AlreadyClaimed(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	drop := pendingDrop()
	drop.Status = domain.DropStatusClaimed
	tm.db.EXPECT().GetDrop(gomock.Any(), drop.ID).Return(drop, nil)

	_, err := svc.ClaimDrop(context.Background(), testPlayer, drop.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
}

func TestClaimDrop_MintFailureLeavesDropPending(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	drop := pendingDrop()
	tm.db.EXPECT().GetDrop(gomock.Any(), drop.ID).Return(drop, nil)
	tm.uploader.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return(&ipfs.UploadResult{MetadataURI: "ipfs://QmMeta"}, nil)
	tm.tokenIDs.EXPECT().GenerateTokenID(gomock.Any()).Return(int64(777), nil)
	tm.gw.EXPECT().
		Mint(gomock.Any(), testPlayer, int64(777), "ipfs://QmMeta").
		Return(nil, domain.NewError(domain.ErrKindLedgerCall, "mint reverted", errors.New("revert")))
	// No ClaimDrop expectation: a failed mint must not consume the drop

	result, err := svc.ClaimDrop(context.Background(), testPlayer, drop.ID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, domain.IsKind(err, domain.ErrKindLedgerCall))
}

func TestClaimDrop_OperatorHeldStillCommitsClaim(t *testing.T) {
	tm, svc := setupTestGame(t, &scriptedRoller{})
	defer tm.ctrl.Finish()

	drop := pendingDrop()
	tm.db.EXPECT().GetDrop(gomock.Any(), drop.ID).Return(drop, nil)
	tm.uploader.EXPECT().
		UploadMetadata(gomock.Any(), gomock.Any()).
		Return(&ipfs.UploadResult{MetadataURI: "ipfs://QmMeta"}, nil)
	tm.tokenIDs.EXPECT().GenerateTokenID(gomock.Any()).Return(int64(777), nil)
	tm.gw.EXPECT().
		Mint(gomock.Any(), testPlayer, int64(777), "ipfs://QmMeta").
		Return(&domain.MintResult{TokenID: 777, MintTxHash: "0xmint", OperatorHeld: true},
			domain.NewError(domain.ErrKindLedgerCall, "handoff failed", errors.New("revert")))
	tm.gw.EXPECT().OperatorAddress().Return(common.HexToAddress(testOperator))
	tm.db.EXPECT().
		ClaimDrop(gomock.Any(), drop.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, asset *schema.Asset) error {
			// The minted token is recorded against the operator wallet
			assert.True(t, domain.SameAddress(testOperator, asset.OwnerAddress))
			return nil
		})

	result, err := svc.ClaimDrop(context.Background(), testPlayer, drop.ID)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.True(t, result.OperatorHeld)
	assert.Equal(t, int64(777), result.TokenID)
	assert.Equal(t, "0xmint", result.MintTxHash)
}
