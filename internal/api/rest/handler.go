package rest

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/api/middleware"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/game"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/metatx"
	"github.com/kquest/marketplace-core/internal/reconcile"
	"github.com/kquest/marketplace-core/internal/settle"
	"github.com/kquest/marketplace-core/internal/store"
	"github.com/kquest/marketplace-core/internal/store/schema"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handler serves the marketplace REST surface
type Handler struct {
	db         store.Store
	gw         gateway.Gateway
	relay      metatx.Relay
	reconciler reconcile.Service
	settler    settle.Orchestrator
	tokenIDs   settle.TokenIDSource
	game       game.Service
}

// NewHandler creates a REST handler
func NewHandler(db store.Store, gw gateway.Gateway, relay metatx.Relay, reconciler reconcile.Service, settler settle.Orchestrator, tokenIDs settle.TokenIDSource, gameSvc game.Service) *Handler {
	return &Handler{
		db:         db,
		gw:         gw,
		relay:      relay,
		reconciler: reconciler,
		settler:    settler,
		tokenIDs:   tokenIDs,
		game:       gameSvc,
	}
}

// HealthCheck reports service liveness
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type prepareMetaTxRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// PrepareMetaTx builds a typed-data envelope for a gasless token transfer
func (h *Handler) PrepareMetaTx(c *gin.Context) {
	var req prepareMetaTxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	// Only the session owner may prepare transfers from their address
	if !domain.SameAddress(req.From, middleware.CallerAddress(c)) {
		respondForbidden(c, "cannot prepare transfers for another address")
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok {
		respondBadRequest(c, "amount must be a base-unit integer")
		return
	}

	prepared, err := h.relay.PrepareTransfer(c.Request.Context(), req.From, req.To, amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, prepared)
}

type assetDTO struct {
	TokenID     int64       `json:"token_id"`
	Owner       string      `json:"owner"`
	MetadataURI string      `json:"metadata_uri,omitempty"`
	MintTxHash  string      `json:"mint_tx_hash,omitempty"`
	Status      string      `json:"status"`
	Listing     *listingDTO `json:"listing,omitempty"`
}

type listingDTO struct {
	ID        int64     `json:"id"`
	AssetID   int64     `json:"asset_id"`
	Seller    string    `json:"seller"`
	Price     string    `json:"price"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toListingDTO(listing *schema.Listing) *listingDTO {
	return &listingDTO{
		ID:        listing.ID,
		AssetID:   listing.AssetID,
		Seller:    listing.SellerAddress,
		Price:     listing.Price,
		Status:    string(listing.Status),
		CreatedAt: listing.CreatedAt,
	}
}

// GetOwnedAssets returns the caller's assets, optionally reconciling
// against the ledger first
func (h *Handler) GetOwnedAssets(c *gin.Context) {
	address := c.Param("address")
	if !domain.ValidAddress(address) {
		respondBadRequest(c, "invalid address")
		return
	}
	if !domain.SameAddress(address, middleware.CallerAddress(c)) {
		respondForbidden(c, "cannot list another address's assets")
		return
	}

	var syncResult *domain.SyncResult
	if c.Query("sync") == "true" {
		var err error
		syncResult, err = h.reconciler.SyncAddress(c.Request.Context(), address, false)
		if err != nil {
			// Stale data beats no data; serve the store view
			logger.Warn("reconciliation failed, serving store view",
				zap.String("address", address), zap.Error(err))
		}
	}

	assets, err := h.db.GetAssetsByOwner(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "failed to load assets")
		return
	}

	dtos := make([]assetDTO, 0, len(assets))
	for _, asset := range assets {
		dto := assetDTO{
			TokenID:     asset.TokenID,
			Owner:       asset.OwnerAddress,
			MetadataURI: asset.MetadataURI,
			MintTxHash:  asset.MintTxHash,
			Status:      string(asset.Status),
		}
		listing, err := h.db.GetListingByAsset(c.Request.Context(), asset.TokenID)
		if err == nil && listing != nil && listing.Status == domain.ListingStatusActive {
			dto.Listing = toListingDTO(listing)
		}
		dtos = append(dtos, dto)
	}

	response := gin.H{"assets": dtos}
	if syncResult != nil {
		response["sync"] = syncResult
	}
	c.JSON(http.StatusOK, response)
}

// ListListings returns the public listing feed
func (h *Handler) ListListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	filter := store.ListingFilter{
		MinPrice: c.Query("min_price"),
		MaxPrice: c.Query("max_price"),
		Sort:     c.Query("sort"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	listings, total, err := h.db.ListActiveListings(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "failed to load listings")
		return
	}

	dtos := make([]listingDTO, 0, len(listings))
	for _, listing := range listings {
		dtos = append(dtos, *toListingDTO(listing))
	}

	c.JSON(http.StatusOK, gin.H{
		"listings":  dtos,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type createListingRequest struct {
	TokenID int64  `json:"token_id" binding:"required"`
	Price   string `json:"price" binding:"required"`
}

// CreateListing lists an asset for sale after confirming on-chain ownership
func (h *Handler) CreateListing(c *gin.Context) {
	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	price, ok := new(big.Int).SetString(req.Price, 10)
	if !ok || price.Sign() <= 0 {
		respondBadRequest(c, "price must be a positive base-unit integer")
		return
	}

	seller := middleware.CallerAddress(c)
	ctx := c.Request.Context()

	owned, err := h.gw.VerifyOwnership(ctx, req.TokenID, seller)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if !owned {
		// The ledger disagrees with the caller; repair the store row
		// so the next read reflects reality, then reject.
		if actualOwner, err := h.gw.Owner(ctx, req.TokenID); err == nil {
			if err := h.db.UpdateAssetOwner(ctx, req.TokenID, actualOwner); err != nil {
				logger.Warn("drift repair failed", zap.Int64("token_id", req.TokenID), zap.Error(err))
			}
		} else if domain.IsKind(err, domain.ErrKindNotFound) {
			if err := h.db.MarkAssetBurned(ctx, req.TokenID); err != nil {
				logger.Warn("drift repair failed", zap.Int64("token_id", req.TokenID), zap.Error(err))
			}
		}
		respondForbidden(c, "you do not own this asset")
		return
	}

	// Reconciliation may not have seen this token yet
	asset, err := h.db.GetAsset(ctx, req.TokenID)
	if err != nil {
		respondInternalError(c, err, "failed to load asset")
		return
	}
	if asset == nil {
		uri, _ := h.gw.TokenURI(ctx, req.TokenID)
		if err := h.db.CreateAsset(ctx, &schema.Asset{
			TokenID:      req.TokenID,
			OwnerAddress: seller,
			MetadataURI:  uri,
			Status:       domain.AssetStatusActive,
		}); err != nil {
			respondInternalError(c, err, "failed to record asset")
			return
		}
	}

	listing, err := h.db.CreateOrRecycleListing(ctx, req.TokenID, seller, price.String())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing": toListingDTO(listing)})
}

// CancelListing withdraws the caller's own active listing
func (h *Handler) CancelListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid listing id")
		return
	}

	listing, err := h.db.GetListing(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "failed to load listing")
		return
	}
	if listing == nil {
		respondNotFound(c, "listing not found")
		return
	}
	if !domain.SameAddress(listing.SellerAddress, middleware.CallerAddress(c)) {
		respondForbidden(c, "only the seller can cancel a listing")
		return
	}

	if err := h.db.CancelListing(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type purchaseRequest struct {
	ListingID int64                 `json:"listing_id" binding:"required"`
	Request   domain.ForwardRequest `json:"request" binding:"required"`
	Signature string                `json:"signature" binding:"required"`
}

// Purchase settles a peer-to-peer trade
func (h *Handler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		respondBadRequest(c, "signature must be hex encoded")
		return
	}

	result, err := h.settler.PurchaseListing(c.Request.Context(), settle.PeerPurchaseInput{
		ListingID: req.ListingID,
		Buyer:     middleware.CallerAddress(c),
		Request:   req.Request,
		Signature: signature,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type shopItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Rarity      string `json:"rarity,omitempty"`
}

// ListShopItems returns the active, in-stock catalog
func (h *Handler) ListShopItems(c *gin.Context) {
	items, err := h.db.ListActiveShopItems(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "failed to load shop items")
		return
	}

	dtos := make([]shopItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, shopItemDTO{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Stock:       item.Stock,
			Rarity:      item.Rarity,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": dtos})
}

type shopPurchaseRequest struct {
	ItemID    int64                 `json:"item_id" binding:"required"`
	Request   domain.ForwardRequest `json:"request" binding:"required"`
	Signature string                `json:"signature" binding:"required"`
}

// ShopPurchase settles a catalog sale
func (h *Handler) ShopPurchase(c *gin.Context) {
	var req shopPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	signature, err := hexutil.Decode(req.Signature)
	if err != nil {
		respondBadRequest(c, "signature must be hex encoded")
		return
	}

	result, err := h.settler.PurchaseShopItem(c.Request.Context(), settle.ShopPurchaseInput{
		ItemID:    req.ItemID,
		Buyer:     middleware.CallerAddress(c),
		Request:   req.Request,
		Signature: signature,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type purchaseDTO struct {
	ID             int64     `json:"id"`
	Kind           string    `json:"kind"`
	TokenID        int64     `json:"token_id"`
	Buyer          string    `json:"buyer"`
	Seller         string    `json:"seller"`
	Price          string    `json:"price"`
	PaymentTxHash  string    `json:"payment_tx_hash"`
	DeliveryTxHash string    `json:"delivery_tx_hash,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetHistory returns the caller's trade history
func (h *Handler) GetHistory(c *gin.Context) {
	address := c.Param("address")
	if !domain.ValidAddress(address) {
		respondBadRequest(c, "invalid address")
		return
	}
	if !domain.SameAddress(address, middleware.CallerAddress(c)) {
		respondForbidden(c, "cannot read another address's history")
		return
	}

	role := store.PurchaseRole(c.DefaultQuery("role", string(store.PurchaseRoleAll)))
	switch role {
	case store.PurchaseRoleAll, store.PurchaseRoleBuy, store.PurchaseRoleSell:
	default:
		respondBadRequest(c, "role must be all, buy or sell")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	purchases, err := h.db.ListPurchases(c.Request.Context(), address, role, pageSize, (page-1)*pageSize)
	if err != nil {
		respondInternalError(c, err, "failed to load history")
		return
	}

	dtos := make([]purchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		dtos = append(dtos, purchaseDTO{
			ID:             p.ID,
			Kind:           string(p.Kind),
			TokenID:        p.TokenID,
			Buyer:          p.BuyerAddress,
			Seller:         p.SellerAddress,
			Price:          p.Price,
			PaymentTxHash:  p.PaymentTxHash,
			DeliveryTxHash: p.DeliveryTxHash,
			CreatedAt:      p.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"purchases": dtos, "page": page, "page_size": pageSize})
}

type mintRequest struct {
	To          string `json:"to" binding:"required"`
	MetadataURI string `json:"metadata_uri" binding:"required"`
	TokenID     int64  `json:"token_id"`
}

// MintAsset mints a token to an address, allocating an ID when none is given
func (h *Handler) MintAsset(c *gin.Context) {
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	tokenID := req.TokenID
	if tokenID == 0 {
		var err error
		tokenID, err = h.tokenIDs.GenerateTokenID(ctx)
		if err != nil {
			respondDomainError(c, err)
			return
		}
	}

	result, err := h.gw.Mint(ctx, req.To, tokenID, req.MetadataURI)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.db.CreateAsset(ctx, &schema.Asset{
		TokenID:      tokenID,
		OwnerAddress: req.To,
		MetadataURI:  req.MetadataURI,
		MintTxHash:   result.MintTxHash,
		Status:       domain.AssetStatusActive,
	}); err != nil {
		logger.Error(err, zap.Int64("token_id", tokenID), zap.String("stage", "mint_record"))
	}

	c.JSON(http.StatusOK, result)
}

type burnRequest struct {
	TokenID int64 `json:"token_id" binding:"required"`
}

// BurnAsset destroys a token and marks its store row burned
func (h *Handler) BurnAsset(c *gin.Context) {
	var req burnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	result, err := h.gw.Burn(ctx, req.TokenID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.db.MarkAssetBurned(ctx, req.TokenID); err != nil {
		logger.Error(err, zap.Int64("token_id", req.TokenID), zap.String("stage", "burn_record"))
	}

	c.JSON(http.StatusOK, result)
}

// GetInventory returns the caller's game inventory, the store view of
// their tokens
func (h *Handler) GetInventory(c *gin.Context) {
	address := middleware.CallerAddress(c)

	assets, err := h.db.GetAssetsByOwner(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "failed to load inventory")
		return
	}

	dtos := make([]assetDTO, 0, len(assets))
	for _, asset := range assets {
		dtos = append(dtos, assetDTO{
			TokenID:     asset.TokenID,
			Owner:       asset.OwnerAddress,
			MetadataURI: asset.MetadataURI,
			MintTxHash:  asset.MintTxHash,
			Status:      string(asset.Status),
		})
	}

	c.JSON(http.StatusOK, gin.H{"inventory": dtos})
}

type monsterKillRequest struct {
	MonsterType  string `json:"monster_type" binding:"required"`
	MonsterLevel int    `json:"monster_level"`
}

// MonsterKill rolls a loot drop for the caller's kill
func (h *Handler) MonsterKill(c *gin.Context) {
	var req monsterKillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	outcome, err := h.game.RollDrop(c.Request.Context(), middleware.CallerAddress(c), req.MonsterType, req.MonsterLevel)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

type dropDTO struct {
	ID            int64     `json:"id"`
	MonsterType   string    `json:"monster_type"`
	MonsterLevel  int       `json:"monster_level"`
	ItemName      string    `json:"item_name"`
	ItemGrade     string    `json:"item_grade"`
	Status        string    `json:"status"`
	MintedTokenID *int64    `json:"minted_token_id,omitempty"`
	DroppedAt     time.Time `json:"dropped_at"`
}

// ListDrops returns the caller's loot drops, optionally filtered by status
func (h *Handler) ListDrops(c *gin.Context) {
	status := domain.DropStatus(c.Query("status"))

	drops, err := h.game.ListDrops(c.Request.Context(), middleware.CallerAddress(c), status)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	dtos := make([]dropDTO, 0, len(drops))
	for _, drop := range drops {
		dtos = append(dtos, dropDTO{
			ID:            drop.ID,
			MonsterType:   drop.MonsterType,
			MonsterLevel:  drop.MonsterLevel,
			ItemName:      drop.ItemName,
			ItemGrade:     drop.ItemGrade,
			Status:        string(drop.Status),
			MintedTokenID: drop.MintedTokenID,
			DroppedAt:     drop.DroppedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"drops": dtos})
}

// GetPlayerStats returns the caller's holdings and drop summary
func (h *Handler) GetPlayerStats(c *gin.Context) {
	stats, err := h.game.PlayerStats(c.Request.Context(), middleware.CallerAddress(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

type claimDropRequest struct {
	DropID int64 `json:"drop_id" binding:"required"`
}

// ClaimDrop mints one of the caller's pending drops as a token
func (h *Handler) ClaimDrop(c *gin.Context) {
	var req claimDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body", err.Error())
		return
	}

	result, err := h.game.ClaimDrop(c.Request.Context(), middleware.CallerAddress(c), req.DropID)
	if err != nil {
		// A partial result means the token was minted and the claim is
		// recorded, just not delivered; the caller gets the real state.
		if result == nil {
			respondDomainError(c, err)
			return
		}
		logger.Warn("claim completed with operator-held token",
			zap.Int64("drop_id", result.DropID),
			zap.Int64("token_id", result.TokenID),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// GetTransactionStatus reports the confirmation state of a transaction
func (h *Handler) GetTransactionStatus(c *gin.Context) {
	txHash := c.Param("txHash")
	if len(txHash) != 66 || txHash[:2] != "0x" {
		respondBadRequest(c, "invalid transaction hash")
		return
	}

	status, err := h.gw.TransactionStatus(c.Request.Context(), txHash)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
