package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// AssetStatus represents the lifecycle state of an off-chain asset record.
type AssetStatus string

const (
	AssetStatusActive AssetStatus = "active"
	AssetStatusBurned AssetStatus = "burned"
)

// ListingStatus represents the lifecycle state of a marketplace listing.
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// PurchaseKind distinguishes peer-to-peer trades from server shop sales.
type PurchaseKind string

const (
	PurchaseKindPeerToPeer PurchaseKind = "peer_to_peer"
	PurchaseKindShop       PurchaseKind = "shop"
)

// DropStatus represents the lifecycle state of a rolled loot drop.
type DropStatus string

const (
	DropStatusPending DropStatus = "pending"
	DropStatusClaimed DropStatus = "claimed"
)

// NormalizeAddress lowercases a hex address for storage and comparison.
// On-chain calls use checksummed addresses; the store always holds the
// lowercase form.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// SameAddress compares two hex addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ValidAddress reports whether the string is a well-formed hex address.
func ValidAddress(address string) bool {
	return common.IsHexAddress(address)
}

// TxResult describes a confirmed ledger write.
type TxResult struct {
	TxHash      string   `json:"tx_hash"`
	BlockNumber uint64   `json:"block_number"`
	GasUsed     uint64   `json:"gas_used"`
	GasPrice    *big.Int `json:"-"`
}

// TxStatus describes the confirmation state of a submitted transaction.
type TxStatus struct {
	Status        string `json:"status"` // pending, confirmed, failed
	TxHash        string `json:"tx_hash"`
	BlockNumber   uint64 `json:"block_number,omitempty"`
	Confirmations uint64 `json:"confirmations,omitempty"`
	GasUsed       uint64 `json:"gas_used,omitempty"`
}

// MintResult describes the outcome of the two-step mint choreography.
// When OperatorHeld is true the token was minted but the transfer to the
// target failed, so the asset sits in the operator wallet awaiting a
// recovery transfer.
type MintResult struct {
	TokenID        int64  `json:"token_id"`
	MintTxHash     string `json:"mint_tx_hash"`
	TransferTxHash string `json:"transfer_tx_hash,omitempty"`
	GasUsed        uint64 `json:"gas_used"`
	OperatorHeld   bool   `json:"operator_held,omitempty"`
}

// ForwardRequest mirrors the forwarder contract's request struct. The
// nonce is owned by the forwarder per signer and must be fetched
// immediately before signing to minimize staleness.
type ForwardRequest struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
	Gas   string `json:"gas"`
	Nonce string `json:"nonce"`
	Data  string `json:"data"`
}

// TypedDataDomain is the EIP-712 domain descriptor returned to wallets.
type TypedDataDomain struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           int64  `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

// TypedDataField is a single field of an EIP-712 type schema.
type TypedDataField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PreparedRequest bundles everything a wallet needs to produce an
// EIP-712 signature for a delegated token transfer. The service never
// holds the end user's key.
type PreparedRequest struct {
	Request     ForwardRequest              `json:"request"`
	Domain      TypedDataDomain             `json:"domain"`
	Types       map[string][]TypedDataField `json:"types"`
	PrimaryType string                      `json:"primaryType"`
}

// SyncResult summarizes one reconciliation pass for an address.
type SyncResult struct {
	Success          bool          `json:"success"`
	Cooldown         bool          `json:"cooldown,omitempty"`
	RemainingSeconds int64         `json:"remaining_seconds,omitempty"`
	Inserted         int           `json:"inserted"`
	Updated          int           `json:"updated"`
	TotalTouched     int           `json:"total_touched"`
	Duration         time.Duration `json:"-"`
}

// PlayerStats summarizes a player's holdings and drop history.
type PlayerStats struct {
	AssetCount  int64            `json:"asset_count"`
	TotalDrops  int64            `json:"total_drops"`
	GradeCounts map[string]int64 `json:"grade_counts"`
}

// ClaimResult describes a drop claimed as a freshly minted token.
// OperatorHeld mirrors the mint choreography: the token exists but the
// handoff to the player failed, so it sits in the operator wallet.
type ClaimResult struct {
	Success      bool   `json:"success"`
	DropID       int64  `json:"drop_id"`
	TokenID      int64  `json:"token_id"`
	MintTxHash   string `json:"mint_tx_hash"`
	MetadataURI  string `json:"metadata_uri"`
	OperatorHeld bool   `json:"operator_held,omitempty"`
}

// SettlementResult is the uniform response of the settlement
// orchestrator. Critical marks the paid-but-not-delivered window; the
// payment hash is always present in that case so operators can
// remediate manually.
type SettlementResult struct {
	Success        bool   `json:"success"`
	Critical       bool   `json:"critical,omitempty"`
	TokenID        int64  `json:"token_id,omitempty"`
	PaymentTxHash  string `json:"payment_tx_hash,omitempty"`
	DeliveryTxHash string `json:"delivery_tx_hash,omitempty"`
	MetadataURI    string `json:"metadata_uri,omitempty"`
}
