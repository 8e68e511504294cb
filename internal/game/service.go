package game

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/ipfs"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/store"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

// listDropsLimit caps a single drop listing
const listDropsLimit = 100

// dropRates is the per-monster chance of any drop at all
var dropRates = map[string]float64{
	"goblin": 0.3,
	"orc":    0.25,
	"dragon": 0.5,
	"boss":   0.8,
}

const defaultDropRate = 0.2

// gradeRates is ordered; grades are rolled by cumulative probability
var gradeRates = []struct {
	Grade string
	Rate  float64
}{
	{"Common", 0.6},
	{"Rare", 0.3},
	{"Epic", 0.09},
	{"Legendary", 0.01},
}

// dropItems maps monster types to their loot tables
var dropItems = map[string][]string{
	"goblin": {"Goblin Tooth", "Rusty Dagger", "Torn Cloth"},
	"orc":    {"Orc Tusk", "Battle Axe", "Iron Armor"},
	"dragon": {"Dragon Scale", "Fire Gem", "Ancient Sword"},
	"boss":   {"Boss Crown", "Legendary Weapon", "Epic Armor"},
}

var defaultDropItems = []string{"Common Item", "Basic Material", "Small Potion"}

// Roller produces the random draws behind drop decisions
//
//go:generate mockgen -source=service.go -destination=../mocks/game.go -package=mocks -mock_names=Service=MockGameService
type Roller interface {
	// Float returns a draw in [0, 1)
	Float() float64
	// IntN returns a draw in [0, n)
	IntN(n int) int
}

type realRoller struct{}

// NewRoller creates a roller backed by the default random source
func NewRoller() Roller {
	return &realRoller{}
}

func (realRoller) Float() float64 { return rand.Float64() }
func (realRoller) IntN(n int) int { return rand.Intn(n) }

// TokenIDSource assigns unused token IDs for claim mints
type TokenIDSource interface {
	GenerateTokenID(ctx context.Context) (int64, error)
}

// DropOutcome reports one monster-kill roll
type DropOutcome struct {
	Dropped bool         `json:"dropped"`
	Drop    *schema.Drop `json:"item,omitempty"`
}

// Service runs the game loop around loot: rolls on monster kills,
// drop listings, player stats, and claiming a drop as a minted token.
type Service interface {
	// RollDrop decides whether a kill drops loot and records the drop
	RollDrop(ctx context.Context, address, monsterType string, monsterLevel int) (*DropOutcome, error)
	// ListDrops returns the address's drops, optionally filtered by status
	ListDrops(ctx context.Context, address string, status domain.DropStatus) ([]*schema.Drop, error)
	// PlayerStats summarizes the address's holdings and drop history
	PlayerStats(ctx context.Context, address string) (*domain.PlayerStats, error)
	// ClaimDrop mints a pending drop to its owner as a fresh token
	ClaimDrop(ctx context.Context, address string, dropID int64) (*domain.ClaimResult, error)
}

type service struct {
	db       store.Store
	gw       gateway.Gateway
	uploader ipfs.Uploader
	tokenIDs TokenIDSource
	roll     Roller
}

// NewService creates the game loot service
func NewService(db store.Store, gw gateway.Gateway, uploader ipfs.Uploader, tokenIDs TokenIDSource, roll Roller) Service {
	return &service{
		db:       db,
		gw:       gw,
		uploader: uploader,
		tokenIDs: tokenIDs,
		roll:     roll,
	}
}

// RollDrop decides whether a kill drops loot and records the drop
func (s *service) RollDrop(ctx context.Context, address, monsterType string, monsterLevel int) (*DropOutcome, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid player address", nil)
	}
	if monsterType == "" {
		return nil, domain.NewError(domain.ErrKindValidation, "monster type is required", nil)
	}
	if monsterLevel < 1 {
		monsterLevel = 1
	}

	rate, ok := dropRates[monsterType]
	if !ok {
		rate = defaultDropRate
	}
	if s.roll.Float() >= rate {
		return &DropOutcome{Dropped: false}, nil
	}

	drop := &schema.Drop{
		UserAddress:  address,
		MonsterType:  monsterType,
		MonsterLevel: monsterLevel,
		ItemName:     s.rollItem(monsterType),
		ItemGrade:    s.rollGrade(),
		Status:       domain.DropStatusPending,
	}
	if err := s.db.CreateDrop(ctx, drop); err != nil {
		return nil, err
	}

	logger.Info("loot dropped",
		zap.String("address", drop.UserAddress),
		zap.String("item", drop.ItemName),
		zap.String("grade", drop.ItemGrade),
		zap.Int64("drop_id", drop.ID))

	return &DropOutcome{Dropped: true, Drop: drop}, nil
}

// rollGrade walks the cumulative grade distribution
func (s *service) rollGrade() string {
	draw := s.roll.Float()
	cumulative := 0.0
	for _, g := range gradeRates {
		cumulative += g.Rate
		if draw < cumulative {
			return g.Grade
		}
	}
	return gradeRates[0].Grade
}

func (s *service) rollItem(monsterType string) string {
	items, ok := dropItems[monsterType]
	if !ok {
		items = defaultDropItems
	}
	return items[s.roll.IntN(len(items))]
}

// ListDrops returns the address's drops, optionally filtered by status
func (s *service) ListDrops(ctx context.Context, address string, status domain.DropStatus) ([]*schema.Drop, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid player address", nil)
	}
	switch status {
	case "", domain.DropStatusPending, domain.DropStatusClaimed:
	default:
		return nil, domain.NewError(domain.ErrKindValidation, "status must be pending or claimed", nil)
	}

	return s.db.ListDrops(ctx, address, status, listDropsLimit)
}

// PlayerStats summarizes the address's holdings and drop history
func (s *service) PlayerStats(ctx context.Context, address string) (*domain.PlayerStats, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid player address", nil)
	}

	assetCount, err := s.db.CountAssetsByOwner(ctx, address)
	if err != nil {
		return nil, err
	}

	gradeCounts, err := s.db.DropStats(ctx, address)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range gradeCounts {
		total += count
	}

	return &domain.PlayerStats{
		AssetCount:  assetCount,
		TotalDrops:  total,
		GradeCounts: gradeCounts,
	}, nil
}

// ClaimDrop mints a pending drop to its owner as a fresh token. The
// drop stays pending when the mint never happened, so the player can
// retry; a token held by the operator is still a claimed drop.
func (s *service) ClaimDrop(ctx context.Context, address string, dropID int64) (*domain.ClaimResult, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid player address", nil)
	}

	drop, err := s.db.GetDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}
	// A drop belonging to another player is indistinguishable from a
	// missing one to the caller
	if drop == nil || !domain.SameAddress(drop.UserAddress, address) {
		return nil, domain.NewError(domain.ErrKindNotFound, "drop not found", nil)
	}
	if drop.Status != domain.DropStatusPending {
		return nil, domain.NewError(domain.ErrKindValidation, "drop already claimed", nil)
	}

	upload, err := s.uploader.UploadMetadata(ctx, ipfs.AssetMetadata{
		Name:        drop.ItemName,
		Description: fmt.Sprintf("%s dropped by a level %d %s", drop.ItemName, drop.MonsterLevel, drop.MonsterType),
		Rarity:      drop.ItemGrade,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pin drop metadata: %w", err)
	}

	tokenID, err := s.tokenIDs.GenerateTokenID(ctx)
	if err != nil {
		return nil, err
	}

	mint, mintErr := s.gw.Mint(ctx, address, tokenID, upload.MetadataURI)
	if mintErr != nil && (mint == nil || !mint.OperatorHeld) {
		// Nothing was minted; the drop stays pending for a retry
		return nil, mintErr
	}

	owner := address
	if mint.OperatorHeld {
		// The token exists but the handoff failed; record reality and
		// leave the transfer to operator remediation
		owner = s.gw.OperatorAddress().Hex()
	}

	if err := s.db.ClaimDrop(ctx, drop.ID, &schema.Asset{
		TokenID:      tokenID,
		OwnerAddress: owner,
		MetadataURI:  upload.MetadataURI,
		MintTxHash:   mint.MintTxHash,
		Status:       domain.AssetStatusActive,
	}); err != nil {
		// The token is minted; the store is behind, not wrong
		logger.Error(err,
			zap.Int64("drop_id", drop.ID),
			zap.Int64("token_id", tokenID),
			zap.String("stage", "claim_commit"))
		return nil, fmt.Errorf("drop minted but claim commit failed: %w", err)
	}

	result := &domain.ClaimResult{
		Success:      !mint.OperatorHeld,
		DropID:       drop.ID,
		TokenID:      tokenID,
		MintTxHash:   mint.MintTxHash,
		MetadataURI:  upload.MetadataURI,
		OperatorHeld: mint.OperatorHeld,
	}
	if mintErr != nil {
		return result, domain.WrapError(domain.ErrKindLedgerCall,
			fmt.Sprintf("token %d minted but held by operator", tokenID), mintErr)
	}
	return result, nil
}
