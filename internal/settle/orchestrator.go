package settle

import (
	"context"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/ipfs"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/metatx"
	"github.com/kquest/marketplace-core/internal/store"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

const erc20TransferABIJSON = `[
	{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// TokenIDSource assigns unused token IDs for shop mints
type TokenIDSource interface {
	GenerateTokenID(ctx context.Context) (int64, error)
}

// PeerPurchaseInput is a buyer's request to settle an active listing.
// Request and Signature are the buyer-signed payment meta-transaction.
type PeerPurchaseInput struct {
	ListingID int64
	Buyer     string
	Request   domain.ForwardRequest
	Signature []byte
}

// ShopPurchaseInput is a buyer's request to settle a catalog sale
type ShopPurchaseInput struct {
	ItemID    int64
	Buyer     string
	Request   domain.ForwardRequest
	Signature []byte
}

// Orchestrator runs two-step settlements: payment first, delivery
// second, store commit last. A delivery failure after a confirmed
// payment is never rolled back; it surfaces as a critical result
// carrying the payment hash.
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/settle.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// PurchaseListing settles a peer-to-peer trade
	PurchaseListing(ctx context.Context, input PeerPurchaseInput) (*domain.SettlementResult, error)
	// PurchaseShopItem settles a catalog sale, minting a fresh token to the buyer
	PurchaseShopItem(ctx context.Context, input ShopPurchaseInput) (*domain.SettlementResult, error)
}

type orchestrator struct {
	db         store.Store
	gw         gateway.Gateway
	relay      metatx.Relay
	uploader   ipfs.Uploader
	tokenIDs   TokenIDSource
	fs         adapter.Filesystem
	shopWallet string
	erc20ABI   abi.ABI
}

// NewOrchestrator creates a settlement orchestrator
func NewOrchestrator(db store.Store, gw gateway.Gateway, relay metatx.Relay, uploader ipfs.Uploader, tokenIDs TokenIDSource, fs adapter.Filesystem, shopWallet string) (Orchestrator, error) {
	parsedERC20, err := abi.JSON(strings.NewReader(erc20TransferABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	return &orchestrator{
		db:         db,
		gw:         gw,
		relay:      relay,
		uploader:   uploader,
		tokenIDs:   tokenIDs,
		fs:         fs,
		shopWallet: shopWallet,
		erc20ABI:   parsedERC20,
	}, nil
}

// PurchaseListing settles a peer-to-peer trade
func (o *orchestrator) PurchaseListing(ctx context.Context, input PeerPurchaseInput) (*domain.SettlementResult, error) {
	if !domain.ValidAddress(input.Buyer) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid buyer address", nil)
	}

	listing, err := o.db.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "listing not found", nil)
	}
	// A sold or cancelled listing fails here, before any ledger call,
	// which is what makes settlement replays harmless.
	if listing.Status != domain.ListingStatusActive {
		return nil, domain.NewError(domain.ErrKindValidation, "listing is not active", nil)
	}
	if domain.SameAddress(listing.SellerAddress, input.Buyer) {
		return nil, domain.NewError(domain.ErrKindValidation, "cannot buy your own listing", nil)
	}

	price, ok := new(big.Int).SetString(listing.Price, 10)
	if !ok {
		return nil, fmt.Errorf("listing %d has malformed price %q", listing.ID, listing.Price)
	}

	if err := o.checkFunds(ctx, input.Buyer, price); err != nil {
		return nil, err
	}
	if err := o.checkPaymentRequest(input.Request, input.Buyer, listing.SellerAddress, price); err != nil {
		return nil, err
	}

	job := &schema.SettlementJob{
		ID:            uuid.NewString(),
		Kind:          domain.PurchaseKindPeerToPeer,
		Step:          schema.SettlementStepPaymentPending,
		BuyerAddress:  input.Buyer,
		SellerAddress: listing.SellerAddress,
		TokenID:       listing.AssetID,
		ListingID:     &listing.ID,
		Price:         listing.Price,
	}
	if err := o.db.CreateSettlementJob(ctx, job); err != nil {
		return nil, err
	}

	payment, err := o.relay.Execute(ctx, input.Request, input.Signature)
	if err != nil {
		o.failJob(ctx, job.ID, err)
		return nil, err
	}
	o.recordPayment(ctx, job.ID, payment.TxHash)

	delivery, err := o.gw.TransferAsset(ctx, listing.SellerAddress, input.Buyer, listing.AssetID)
	if err != nil {
		return o.critical(ctx, job.ID, payment.TxHash, "payment confirmed but asset delivery failed", err)
	}
	o.recordDelivery(ctx, job.ID, delivery.TxHash, listing.AssetID)

	purchase := &schema.Purchase{
		Kind:           domain.PurchaseKindPeerToPeer,
		TokenID:        listing.AssetID,
		BuyerAddress:   input.Buyer,
		SellerAddress:  listing.SellerAddress,
		Price:          listing.Price,
		PaymentTxHash:  payment.TxHash,
		DeliveryTxHash: delivery.TxHash,
	}
	if err := o.db.CompletePeerSettlement(ctx, job.ID, listing.ID, purchase); err != nil {
		// Both ledger legs confirmed; the store is behind, not wrong.
		// Reconciliation repairs this drift.
		logger.Error(err,
			zap.String("job_id", job.ID),
			zap.Int64("listing_id", listing.ID),
			zap.String("stage", "peer_settlement_commit"))
		return nil, fmt.Errorf("settlement confirmed on ledger but store commit failed: %w", err)
	}

	return &domain.SettlementResult{
		Success:        true,
		TokenID:        listing.AssetID,
		PaymentTxHash:  payment.TxHash,
		DeliveryTxHash: delivery.TxHash,
	}, nil
}

// PurchaseShopItem settles a catalog sale, minting a fresh token to the buyer
func (o *orchestrator) PurchaseShopItem(ctx context.Context, input ShopPurchaseInput) (*domain.SettlementResult, error) {
	if !domain.ValidAddress(input.Buyer) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid buyer address", nil)
	}

	item, err := o.db.GetShopItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "shop item not found", nil)
	}
	if !item.Active || item.Stock <= 0 {
		return nil, domain.NewError(domain.ErrKindValidation, "shop item is unavailable", nil)
	}

	price, ok := new(big.Int).SetString(item.Price, 10)
	if !ok {
		return nil, fmt.Errorf("shop item %d has malformed price %q", item.ID, item.Price)
	}

	if err := o.checkFunds(ctx, input.Buyer, price); err != nil {
		return nil, err
	}
	if err := o.checkPaymentRequest(input.Request, input.Buyer, o.shopWallet, price); err != nil {
		return nil, err
	}

	job := &schema.SettlementJob{
		ID:            uuid.NewString(),
		Kind:          domain.PurchaseKindShop,
		Step:          schema.SettlementStepPaymentPending,
		BuyerAddress:  input.Buyer,
		SellerAddress: o.shopWallet,
		ShopItemID:    &item.ID,
		Price:         item.Price,
	}
	if err := o.db.CreateSettlementJob(ctx, job); err != nil {
		return nil, err
	}

	payment, err := o.relay.Execute(ctx, input.Request, input.Signature)
	if err != nil {
		o.failJob(ctx, job.ID, err)
		return nil, err
	}
	o.recordPayment(ctx, job.ID, payment.TxHash)

	// Everything past this point runs with the buyer's money already
	// spent; failures surface as critical, never as rollbacks.
	upload, err := o.uploadItemContent(ctx, item)
	if err != nil {
		return o.critical(ctx, job.ID, payment.TxHash, "payment confirmed but content upload failed", err)
	}

	tokenID, err := o.tokenIDs.GenerateTokenID(ctx)
	if err != nil {
		return o.critical(ctx, job.ID, payment.TxHash, "payment confirmed but token id allocation failed", err)
	}

	mint, err := o.gw.Mint(ctx, input.Buyer, tokenID, upload.MetadataURI)
	if err != nil {
		if mint != nil && mint.OperatorHeld {
			return o.critical(ctx, job.ID, payment.TxHash,
				fmt.Sprintf("payment confirmed, token %d minted but held by operator", tokenID), err)
		}
		return o.critical(ctx, job.ID, payment.TxHash, "payment confirmed but mint failed", err)
	}
	o.recordDelivery(ctx, job.ID, mint.TransferTxHash, tokenID)

	asset := &schema.Asset{
		TokenID:      tokenID,
		OwnerAddress: input.Buyer,
		MetadataURI:  upload.MetadataURI,
		MintTxHash:   mint.MintTxHash,
		Status:       domain.AssetStatusActive,
	}
	purchase := &schema.Purchase{
		Kind:           domain.PurchaseKindShop,
		TokenID:        tokenID,
		BuyerAddress:   input.Buyer,
		SellerAddress:  o.shopWallet,
		Price:          item.Price,
		PaymentTxHash:  payment.TxHash,
		DeliveryTxHash: mint.TransferTxHash,
	}
	if err := o.db.CompleteShopSettlement(ctx, job.ID, item.ID, asset, purchase); err != nil {
		logger.Error(err,
			zap.String("job_id", job.ID),
			zap.Int64("item_id", item.ID),
			zap.String("stage", "shop_settlement_commit"))
		return nil, fmt.Errorf("settlement confirmed on ledger but store commit failed: %w", err)
	}

	return &domain.SettlementResult{
		Success:        true,
		TokenID:        tokenID,
		PaymentTxHash:  payment.TxHash,
		DeliveryTxHash: mint.TransferTxHash,
		MetadataURI:    upload.MetadataURI,
	}, nil
}

// checkFunds verifies the buyer's live payment-token balance covers the price
func (o *orchestrator) checkFunds(ctx context.Context, buyer string, price *big.Int) error {
	balance, err := o.gw.TokenBalance(ctx, buyer)
	if err != nil {
		return err
	}
	if balance.Cmp(price) < 0 {
		return domain.NewError(domain.ErrKindInsufficientFunds,
			fmt.Sprintf("balance %s is below price %s", balance.String(), price.String()), nil)
	}
	return nil
}

// checkPaymentRequest verifies the signed meta-transaction actually pays
// the expected recipient the expected amount from the buyer.
func (o *orchestrator) checkPaymentRequest(req domain.ForwardRequest, buyer, recipient string, price *big.Int) error {
	if !domain.SameAddress(req.From, buyer) {
		return domain.NewError(domain.ErrKindValidation, "payment request signer is not the buyer", nil)
	}
	if !domain.SameAddress(req.To, o.gw.PaymentTokenAddress().Hex()) {
		return domain.NewError(domain.ErrKindValidation, "payment request does not target the payment token", nil)
	}

	data, err := hexutil.Decode(req.Data)
	if err != nil {
		return domain.NewError(domain.ErrKindValidation, "malformed payment request data", err)
	}

	method, err := o.erc20ABI.MethodById(data)
	if err != nil || method.Name != "transfer" {
		return domain.NewError(domain.ErrKindValidation, "payment request is not a token transfer", err)
	}

	args, err := method.Inputs.Unpack(data[4:])
	if err != nil || len(args) != 2 {
		return domain.NewError(domain.ErrKindValidation, "malformed payment request arguments", err)
	}

	to, ok := args[0].(common.Address)
	if !ok || !domain.SameAddress(to.Hex(), recipient) {
		return domain.NewError(domain.ErrKindValidation, "payment request pays the wrong recipient", nil)
	}
	amount, ok := args[1].(*big.Int)
	if !ok || amount.Cmp(price) != 0 {
		return domain.NewError(domain.ErrKindValidation, "payment request amount does not match the price", nil)
	}

	return nil
}

// uploadItemContent pins the item image and metadata
func (o *orchestrator) uploadItemContent(ctx context.Context, item *schema.ShopItem) (*ipfs.UploadResult, error) {
	image, err := o.fs.Open(item.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open item image: %w", err)
	}
	defer image.Close() //nolint:errcheck

	return o.uploader.UploadAsset(ctx, ipfs.AssetMetadata{
		Name:        item.Name,
		Description: item.Description,
		Rarity:      item.Rarity,
	}, image, filepath.Base(item.ImagePath))
}

// critical reports a paid-but-not-delivered settlement. The job stays
// at payment_sent so operators can find it; nothing is rolled back.
func (o *orchestrator) critical(ctx context.Context, jobID, paymentTxHash, message string, err error) (*domain.SettlementResult, error) {
	logger.Error(err,
		zap.String("job_id", jobID),
		zap.String("payment_tx_hash", paymentTxHash),
		zap.String("stage", "critical_settlement"))

	return &domain.SettlementResult{
			Critical:      true,
			PaymentTxHash: paymentTxHash,
		},
		domain.NewCriticalSettlementError(message, paymentTxHash, err)
}

// Step-marker writes are best effort: the settlement outcome is decided
// by the ledger legs, not by marker bookkeeping.
func (o *orchestrator) recordPayment(ctx context.Context, jobID, txHash string) {
	if err := o.db.RecordSettlementPayment(ctx, jobID, txHash); err != nil {
		logger.Error(err, zap.String("job_id", jobID), zap.String("stage", "record_payment"))
	}
}

func (o *orchestrator) recordDelivery(ctx context.Context, jobID, txHash string, tokenID int64) {
	if err := o.db.RecordSettlementDelivery(ctx, jobID, txHash, tokenID); err != nil {
		logger.Error(err, zap.String("job_id", jobID), zap.String("stage", "record_delivery"))
	}
}

func (o *orchestrator) failJob(ctx context.Context, jobID string, cause error) {
	if err := o.db.FailSettlementJob(ctx, jobID, cause.Error()); err != nil {
		logger.Error(err, zap.String("job_id", jobID), zap.String("stage", "fail_job"))
	}
}
