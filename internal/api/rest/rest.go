package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/kquest/marketplace-core/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth)
	router.GET("/health", handler.HealthCheck)

	auth := middleware.Auth(authCfg)

	marketplace := router.Group("/api/marketplace")
	{
		// Public listing feed and shop catalog
		marketplace.GET("/listings", handler.ListListings)
		marketplace.GET("/shop/items", handler.ListShopItems)

		// Session-bound operations
		marketplace.POST("/meta-tx/prepare", auth, handler.PrepareMetaTx)
		marketplace.GET("/nfts/:address", auth, handler.GetOwnedAssets)
		marketplace.POST("/listings", auth, handler.CreateListing)
		marketplace.DELETE("/listings/:id", auth, handler.CancelListing)
		marketplace.POST("/purchase", auth, handler.Purchase)
		marketplace.POST("/shop/purchase", auth, handler.ShopPurchase)
		marketplace.GET("/history/:address", auth, handler.GetHistory)
	}

	// Game loop: loot drops and claims, always session-bound
	gameGroup := router.Group("/api/game", auth)
	{
		gameGroup.GET("/inventory", handler.GetInventory)
		gameGroup.POST("/monster-kill", handler.MonsterKill)
		gameGroup.GET("/drops", handler.ListDrops)
		gameGroup.GET("/stats", handler.GetPlayerStats)
		gameGroup.POST("/claim-drop", handler.ClaimDrop)
	}

	// Asset administration over the ledger gateway
	nft := router.Group("/api/nft", auth)
	{
		nft.POST("/mint", handler.MintAsset)
		nft.POST("/burn", handler.BurnAsset)
		nft.GET("/transaction/:txHash", handler.GetTransactionStatus)
	}
}
