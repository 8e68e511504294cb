package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/logger"
)

// assetABI covers the asset contract surface the gateway touches:
// mint/burn/transfer writes and ownerOf/tokenURI reads.
const assetABIJSON = `[
	{"inputs":[{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"uri","type":"string"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"burn","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"transferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

// erc20ABI covers the payment token reads
const erc20ABIJSON = `[
	{"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// Gateway is the single chokepoint between the marketplace and the
// asset ledger. All on-chain reads and operator-signed writes go
// through it.
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// Mint creates a token held by the operator, then hands it to the
	// target address. A step-two failure returns the partial result
	// with OperatorHeld set alongside the error.
	Mint(ctx context.Context, toAddress string, tokenID int64, metadataURI string) (*domain.MintResult, error)
	// Burn destroys a token held or approved for the operator
	Burn(ctx context.Context, tokenID int64) (*domain.TxResult, error)
	// Owner returns the current owner, not_found when the token does not exist
	Owner(ctx context.Context, tokenID int64) (string, error)
	// VerifyOwnership reports whether address currently owns the token
	VerifyOwnership(ctx context.Context, tokenID int64, address string) (bool, error)
	// TransferAsset moves a token between addresses using the operator's approval
	TransferAsset(ctx context.Context, from, to string, tokenID int64) (*domain.TxResult, error)
	// TokenBalance returns the payment-token balance in base units
	TokenBalance(ctx context.Context, address string) (*big.Int, error)
	// TokenURI returns the content reference for a token
	TokenURI(ctx context.Context, tokenID int64) (string, error)
	// TransactionStatus reports pending/confirmed/failed plus confirmations
	TransactionStatus(ctx context.Context, txHash string) (*domain.TxStatus, error)
	// PaymentTokenAddress returns the configured payment token contract
	PaymentTokenAddress() common.Address
	// OperatorAddress returns the custodial signer address
	OperatorAddress() common.Address
}

type ledgerGateway struct {
	client      adapter.EthClient
	signer      Signer
	assetAddr   common.Address
	paymentAddr common.Address
	assetABI    abi.ABI
	erc20ABI    abi.ABI
}

// NewGateway creates a ledger gateway over the given client and signer queue
func NewGateway(client adapter.EthClient, signer Signer, assetContract, paymentToken string) (Gateway, error) {
	parsedAsset, err := abi.JSON(strings.NewReader(assetABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse asset ABI: %w", err)
	}
	parsedERC20, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	return &ledgerGateway{
		client:      client,
		signer:      signer,
		assetAddr:   common.HexToAddress(assetContract),
		paymentAddr: common.HexToAddress(paymentToken),
		assetABI:    parsedAsset,
		erc20ABI:    parsedERC20,
	}, nil
}

func (g *ledgerGateway) PaymentTokenAddress() common.Address {
	return g.paymentAddr
}

func (g *ledgerGateway) OperatorAddress() common.Address {
	return g.signer.Address()
}

// Mint creates a token held by the operator, then hands it to the target address.
// Minting to the operator first keeps a failed delivery recoverable: the token
// sits in the operator wallet instead of being lost.
func (g *ledgerGateway) Mint(ctx context.Context, toAddress string, tokenID int64, metadataURI string) (*domain.MintResult, error) {
	if !domain.ValidAddress(toAddress) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid recipient address", nil)
	}

	operator := g.signer.Address()

	mintData, err := g.assetABI.Pack("mint", operator, big.NewInt(tokenID), metadataURI)
	if err != nil {
		return nil, fmt.Errorf("failed to pack mint data: %w", err)
	}

	mintRes, err := g.signer.Submit(ctx, ContractCall{To: g.assetAddr, Data: mintData})
	if err != nil {
		return nil, err
	}

	logger.Info("token minted to operator",
		zap.Int64("token_id", tokenID),
		zap.String("tx_hash", mintRes.TxHash))

	transferData, err := g.assetABI.Pack("transferFrom", operator, common.HexToAddress(toAddress), big.NewInt(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	transferRes, err := g.signer.Submit(ctx, ContractCall{To: g.assetAddr, Data: transferData})
	if err != nil {
		logger.Error(err,
			zap.Int64("token_id", tokenID),
			zap.String("mint_tx_hash", mintRes.TxHash),
			zap.String("stage", "mint_handoff"))
		return &domain.MintResult{
			TokenID:      tokenID,
			MintTxHash:   mintRes.TxHash,
			GasUsed:      mintRes.GasUsed,
			OperatorHeld: true,
		}, domain.WrapError(domain.ErrKindLedgerCall, "minted token is held by the operator, handoff failed", err)
	}

	return &domain.MintResult{
		TokenID:        tokenID,
		MintTxHash:     mintRes.TxHash,
		TransferTxHash: transferRes.TxHash,
		GasUsed:        mintRes.GasUsed + transferRes.GasUsed,
	}, nil
}

// Burn destroys a token held or approved for the operator
func (g *ledgerGateway) Burn(ctx context.Context, tokenID int64) (*domain.TxResult, error) {
	owner, err := g.Owner(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	logger.Info("burning token", zap.Int64("token_id", tokenID), zap.String("owner", owner))

	data, err := g.assetABI.Pack("burn", big.NewInt(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack burn data: %w", err)
	}

	return g.signer.Submit(ctx, ContractCall{To: g.assetAddr, Data: data})
}

// Owner returns the current owner, not_found when the token does not exist.
// ownerOf reverts for nonexistent tokens, so a call error is read as absence.
func (g *ledgerGateway) Owner(ctx context.Context, tokenID int64) (string, error) {
	data, err := g.assetABI.Pack("ownerOf", big.NewInt(tokenID))
	if err != nil {
		return "", fmt.Errorf("failed to pack ownerOf data: %w", err)
	}

	result, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &g.assetAddr,
		Data: data,
	}, nil)
	if err != nil {
		return "", domain.NewError(domain.ErrKindNotFound,
			fmt.Sprintf("token %d does not exist", tokenID), err)
	}

	var owner common.Address
	if err := g.assetABI.UnpackIntoInterface(&owner, "ownerOf", result); err != nil {
		return "", fmt.Errorf("failed to unpack ownerOf result: %w", err)
	}

	return owner.Hex(), nil
}

// VerifyOwnership reports whether address currently owns the token.
// A nonexistent token verifies false rather than erroring.
func (g *ledgerGateway) VerifyOwnership(ctx context.Context, tokenID int64, address string) (bool, error) {
	owner, err := g.Owner(ctx, tokenID)
	if err != nil {
		if domain.IsKind(err, domain.ErrKindNotFound) {
			return false, nil
		}
		return false, err
	}
	return domain.SameAddress(owner, address), nil
}

// TransferAsset moves a token between addresses using the operator's approval
func (g *ledgerGateway) TransferAsset(ctx context.Context, from, to string, tokenID int64) (*domain.TxResult, error) {
	if !domain.ValidAddress(from) || !domain.ValidAddress(to) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid transfer address", nil)
	}

	data, err := g.assetABI.Pack("transferFrom",
		common.HexToAddress(from), common.HexToAddress(to), big.NewInt(tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	return g.signer.Submit(ctx, ContractCall{To: g.assetAddr, Data: data})
}

// TokenBalance returns the payment-token balance in base units
func (g *ledgerGateway) TokenBalance(ctx context.Context, address string) (*big.Int, error) {
	if !domain.ValidAddress(address) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid address", nil)
	}

	data, err := g.erc20ABI.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &g.paymentAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to read token balance", err)
	}

	var balance *big.Int
	if err := g.erc20ABI.UnpackIntoInterface(&balance, "balanceOf", result); err != nil {
		return nil, fmt.Errorf("failed to unpack balanceOf result: %w", err)
	}

	return balance, nil
}

// TokenURI returns the content reference for a token
func (g *ledgerGateway) TokenURI(ctx context.Context, tokenID int64) (string, error) {
	data, err := g.assetABI.Pack("tokenURI", big.NewInt(tokenID))
	if err != nil {
		return "", fmt.Errorf("failed to pack tokenURI data: %w", err)
	}

	result, err := g.client.CallContract(ctx, ethereum.CallMsg{
		To:   &g.assetAddr,
		Data: data,
	}, nil)
	if err != nil {
		return "", domain.NewError(domain.ErrKindNotFound,
			fmt.Sprintf("token %d does not exist", tokenID), err)
	}

	var uri string
	if err := g.assetABI.UnpackIntoInterface(&uri, "tokenURI", result); err != nil {
		return "", fmt.Errorf("failed to unpack tokenURI result: %w", err)
	}

	return uri, nil
}

// TransactionStatus reports pending/confirmed/failed plus confirmations
func (g *ledgerGateway) TransactionStatus(ctx context.Context, txHash string) (*domain.TxStatus, error) {
	hash := common.HexToHash(txHash)

	receipt, err := g.client.TransactionReceipt(ctx, hash)
	if err != nil {
		// Only an explicit not-found means the transaction is still
		// pending; a transport failure must not masquerade as one.
		if errors.Is(err, ethereum.NotFound) {
			return &domain.TxStatus{Status: "pending", TxHash: txHash}, nil
		}
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to read transaction receipt", err)
	}
	if receipt == nil {
		return &domain.TxStatus{Status: "pending", TxHash: txHash}, nil
	}

	status := "confirmed"
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = "failed"
	}

	head, err := g.client.BlockNumber(ctx)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to read head block", err)
	}

	confirmations := uint64(0)
	mined := receipt.BlockNumber.Uint64()
	if head >= mined {
		confirmations = head - mined + 1
	}

	return &domain.TxStatus{
		Status:        status,
		TxHash:        txHash,
		BlockNumber:   mined,
		Confirmations: confirmations,
		GasUsed:       receipt.GasUsed,
	}, nil
}
