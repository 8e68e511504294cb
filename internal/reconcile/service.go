package reconcile

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/store"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

// transferTopic is the ERC-721 Transfer(address,address,uint256) event signature
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// Service repairs store drift for one address at a time by replaying
// the ledger's Transfer history and re-checking current owners.
//
//go:generate mockgen -source=service.go -destination=../mocks/reconcile.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// SyncAddress reconciles the store against the ledger for one address.
	// force bypasses the cooldown.
	SyncAddress(ctx context.Context, address string, force bool) (*domain.SyncResult, error)
}

// Config tunes the scan
type Config struct {
	AssetContract string
	DeployBlock   uint64
	ChunkSize     uint64
	Workers       int
}

type service struct {
	client    adapter.EthClient
	gw        gateway.Gateway
	db        store.Store
	cooldown  CooldownTracker
	clock     adapter.Clock
	assetAddr common.Address
	fromBlock uint64
	chunkSize uint64
	pool      pond.ResultPool[[]types.Log]
}

// NewService creates a reconciliation service
func NewService(client adapter.EthClient, gw gateway.Gateway, db store.Store, cooldown CooldownTracker, clock adapter.Clock, cfg Config) Service {
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = 10_000
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	return &service{
		client:    client,
		gw:        gw,
		db:        db,
		cooldown:  cooldown,
		clock:     clock,
		assetAddr: common.HexToAddress(cfg.AssetContract),
		fromBlock: cfg.DeployBlock,
		chunkSize: chunkSize,
		pool:      pond.NewResultPool[[]types.Log](workers),
	}
}

// SyncAddress reconciles the store against the ledger for one address
func (s *service) SyncAddress(ctx context.Context, address string, force bool) (*domain.SyncResult, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid address", nil)
	}
	normalized := domain.NormalizeAddress(address)

	if !force {
		if remaining := s.cooldown.Remaining(normalized); remaining > 0 {
			return &domain.SyncResult{
				Success:          true,
				Cooldown:         true,
				RemainingSeconds: int64(math.Ceil(remaining.Seconds())),
			}, nil
		}
	}

	started := s.clock.Now()

	tokenIDs, err := s.scanTokenIDs(ctx, address)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResult{Success: true, TotalTouched: len(tokenIDs)}
	for _, tokenID := range tokenIDs {
		inserted, updated, err := s.repairToken(ctx, tokenID, normalized)
		if err != nil {
			// One broken token must not sink the whole batch
			logger.Error(err,
				zap.Int64("token_id", tokenID),
				zap.String("address", normalized),
				zap.String("stage", "reconcile_repair"))
			continue
		}
		result.Inserted += inserted
		result.Updated += updated
	}

	s.cooldown.Touch(normalized)
	result.Duration = s.clock.Since(started)

	logger.Info("address reconciled",
		zap.String("address", normalized),
		zap.Int("touched", result.TotalTouched),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// scanTokenIDs collects the distinct token IDs the address ever sent or
// received, scanning Transfer logs in fixed-size chunks on the worker pool.
func (s *service) scanTokenIDs(ctx context.Context, address string) ([]int64, error) {
	head, err := s.client.BlockNumber(ctx)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to read head block", err)
	}
	if head < s.fromBlock {
		return nil, nil
	}

	addrTopic := common.BytesToHash(common.HexToAddress(address).Bytes())

	var tasks []pond.Result[[]types.Log]
	for from := s.fromBlock; from <= head; from += s.chunkSize {
		to := from + s.chunkSize - 1
		if to > head {
			to = head
		}

		// Two passes per chunk: address as sender and as receiver
		queries := []ethereum.FilterQuery{
			{
				FromBlock: new(big.Int).SetUint64(from),
				ToBlock:   new(big.Int).SetUint64(to),
				Addresses: []common.Address{s.assetAddr},
				Topics:    [][]common.Hash{{transferTopic}, {addrTopic}},
			},
			{
				FromBlock: new(big.Int).SetUint64(from),
				ToBlock:   new(big.Int).SetUint64(to),
				Addresses: []common.Address{s.assetAddr},
				Topics:    [][]common.Hash{{transferTopic}, {}, {addrTopic}},
			},
		}

		for _, query := range queries {
			q := query
			tasks = append(tasks, s.pool.SubmitErr(func() ([]types.Log, error) {
				return s.client.FilterLogs(ctx, q)
			}))
		}
	}

	seen := make(map[int64]struct{})
	var tokenIDs []int64
	for _, task := range tasks {
		logs, err := task.Wait()
		if err != nil {
			return nil, domain.NewError(domain.ErrKindLedgerCall, "transfer log scan failed", err)
		}
		for _, vLog := range logs {
			// topics: [signature, from, to, tokenId]
			if len(vLog.Topics) != 4 {
				continue
			}
			tokenID := new(big.Int).SetBytes(vLog.Topics[3].Bytes()).Int64()
			if _, ok := seen[tokenID]; ok {
				continue
			}
			seen[tokenID] = struct{}{}
			tokenIDs = append(tokenIDs, tokenID)
		}
	}

	return tokenIDs, nil
}

// repairToken brings one store row in line with the ledger's view of the token
func (s *service) repairToken(ctx context.Context, tokenID int64, address string) (inserted, updated int, err error) {
	owner, err := s.gw.Owner(ctx, tokenID)
	if err != nil {
		if !domain.IsKind(err, domain.ErrKindNotFound) {
			return 0, 0, err
		}
		// Token gone from the ledger: flip an active row to burned
		asset, err := s.db.GetAsset(ctx, tokenID)
		if err != nil {
			return 0, 0, err
		}
		if asset != nil && asset.Status == domain.AssetStatusActive {
			if err := s.db.MarkAssetBurned(ctx, tokenID); err != nil {
				return 0, 0, err
			}
			return 0, 1, nil
		}
		return 0, 0, nil
	}

	if !domain.SameAddress(owner, address) {
		// Owned by someone else now; their own sync will pick it up
		return 0, 0, nil
	}

	asset, err := s.db.GetAsset(ctx, tokenID)
	if err != nil {
		return 0, 0, err
	}

	if asset == nil {
		uri := s.bestEffortTokenURI(ctx, tokenID)
		if err := s.db.CreateAsset(ctx, &schema.Asset{
			TokenID:      tokenID,
			OwnerAddress: address,
			MetadataURI:  uri,
			Status:       domain.AssetStatusActive,
		}); err != nil {
			return 0, 0, err
		}
		return 1, 0, nil
	}

	if !domain.SameAddress(asset.OwnerAddress, address) || asset.Status != domain.AssetStatusActive {
		if err := s.db.UpdateAssetOwner(ctx, tokenID, address); err != nil {
			return 0, 0, err
		}
		return 0, 1, nil
	}

	return 0, 0, nil
}

// bestEffortTokenURI fetches the content reference, returning empty on failure
func (s *service) bestEffortTokenURI(ctx context.Context, tokenID int64) string {
	uri, err := s.gw.TokenURI(ctx, tokenID)
	if err != nil {
		logger.Warn(fmt.Sprintf("could not fetch token URI for %d", tokenID), zap.Error(err))
		return ""
	}
	return uri
}
