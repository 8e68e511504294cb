package metatx

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/logger"
)

// Domain constants must match the deployed forwarder's EIP-712 domain
// or every signature verifies false.
const (
	forwarderDomainName    = "MinimalForwarder"
	forwarderDomainVersion = "1.0.0"
	// relayGasBudget is the inner-call gas the signed request carries
	relayGasBudget = "100000"
)

const forwarderABIJSON = `[
	{"inputs":[{"name":"from","type":"address"}],"name":"getNonce","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"components":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"gas","type":"uint256"},{"name":"nonce","type":"uint256"},{"name":"data","type":"bytes"}],"name":"req","type":"tuple"},{"name":"signature","type":"bytes"}],"name":"verify","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"components":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"},{"name":"gas","type":"uint256"},{"name":"nonce","type":"uint256"},{"name":"data","type":"bytes"}],"name":"req","type":"tuple"},{"name":"signature","type":"bytes"}],"name":"execute","outputs":[{"name":"","type":"bool"},{"name":"","type":"bytes"}],"stateMutability":"payable","type":"function"}
]`

const erc20TransferABIJSON = `[
	{"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// forwardRequestTuple mirrors the forwarder's request struct for ABI packing
type forwardRequestTuple struct {
	From  common.Address
	To    common.Address
	Value *big.Int
	Gas   *big.Int
	Nonce *big.Int
	Data  []byte
}

// Relay prepares and executes gasless payment-token transfers through
// the trusted forwarder. Users sign typed data; the operator pays gas.
//
//go:generate mockgen -source=relay.go -destination=../mocks/relay.go -package=mocks -mock_names=Relay=MockRelay
type Relay interface {
	// Nonce returns the forwarder nonce for a signer address
	Nonce(ctx context.Context, signer string) (*big.Int, error)
	// PrepareTransfer builds the request and typed-data envelope for wallet signing
	PrepareTransfer(ctx context.Context, from, to string, amount *big.Int) (*domain.PreparedRequest, error)
	// Execute verifies a signed request on-chain, then relays it through the operator
	Execute(ctx context.Context, req domain.ForwardRequest, signature []byte) (*domain.TxResult, error)
}

type relay struct {
	client        adapter.EthClient
	signer        gateway.Signer
	forwarderAddr common.Address
	paymentAddr   common.Address
	chainID       int64
	forwarderABI  abi.ABI
	erc20ABI      abi.ABI
}

// NewRelay creates a meta-transaction relay for the given forwarder and payment token
func NewRelay(client adapter.EthClient, signer gateway.Signer, forwarder, paymentToken string, chainID int64) (Relay, error) {
	parsedForwarder, err := abi.JSON(strings.NewReader(forwarderABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse forwarder ABI: %w", err)
	}
	parsedERC20, err := abi.JSON(strings.NewReader(erc20TransferABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}

	return &relay{
		client:        client,
		signer:        signer,
		forwarderAddr: common.HexToAddress(forwarder),
		paymentAddr:   common.HexToAddress(paymentToken),
		chainID:       chainID,
		forwarderABI:  parsedForwarder,
		erc20ABI:      parsedERC20,
	}, nil
}

// Nonce returns the forwarder nonce for a signer address
func (r *relay) Nonce(ctx context.Context, signer string) (*big.Int, error) {
	if !domain.ValidAddress(signer) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid signer address", nil)
	}

	data, err := r.forwarderABI.Pack("getNonce", common.HexToAddress(signer))
	if err != nil {
		return nil, fmt.Errorf("failed to pack getNonce data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.forwarderAddr,
		Data: data,
	}, nil)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to read forwarder nonce", err)
	}

	var nonce *big.Int
	if err := r.forwarderABI.UnpackIntoInterface(&nonce, "getNonce", result); err != nil {
		return nil, fmt.Errorf("failed to unpack getNonce result: %w", err)
	}

	return nonce, nil
}

// PrepareTransfer builds the request and typed-data envelope for wallet
// signing. The nonce is fetched here, immediately before the wallet
// prompt, to keep the staleness window small.
func (r *relay) PrepareTransfer(ctx context.Context, from, to string, amount *big.Int) (*domain.PreparedRequest, error) {
	if !domain.ValidAddress(from) || !domain.ValidAddress(to) {
		return nil, domain.NewError(domain.ErrKindValidation, "invalid transfer address", nil)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, domain.NewError(domain.ErrKindValidation, "transfer amount must be positive", nil)
	}

	callData, err := r.erc20ABI.Pack("transfer", common.HexToAddress(to), amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	nonce, err := r.Nonce(ctx, from)
	if err != nil {
		return nil, err
	}

	req := domain.ForwardRequest{
		From:  common.HexToAddress(from).Hex(),
		To:    r.paymentAddr.Hex(),
		Value: "0",
		Gas:   relayGasBudget,
		Nonce: nonce.String(),
		Data:  hexutil.Encode(callData),
	}

	return &domain.PreparedRequest{
		Request: req,
		Domain: domain.TypedDataDomain{
			Name:              forwarderDomainName,
			Version:           forwarderDomainVersion,
			ChainID:           r.chainID,
			VerifyingContract: r.forwarderAddr.Hex(),
		},
		Types:       forwardRequestTypes(),
		PrimaryType: "ForwardRequest",
	}, nil
}

// Execute verifies a signed request on-chain, then relays it through
// the operator. A verification failure costs no gas.
func (r *relay) Execute(ctx context.Context, req domain.ForwardRequest, signature []byte) (*domain.TxResult, error) {
	tuple, err := toTuple(req)
	if err != nil {
		return nil, err
	}
	if len(signature) != crypto.SignatureLength {
		return nil, domain.NewError(domain.ErrKindSignatureInvalid, "malformed signature", nil)
	}

	// Recover the signer locally for diagnostics; the contract's
	// verify() is the authority.
	if recovered, err := r.recoverSigner(req, signature); err != nil {
		logger.Warn("could not recover meta-tx signer", zap.Error(err))
	} else if !domain.SameAddress(recovered, req.From) {
		logger.Warn("meta-tx signer mismatch",
			zap.String("claimed", req.From),
			zap.String("recovered", recovered))
	}

	verifyData, err := r.forwarderABI.Pack("verify", tuple, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to pack verify data: %w", err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.forwarderAddr,
		Data: verifyData,
	}, nil)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "forwarder verify call failed", err)
	}

	var ok bool
	if err := r.forwarderABI.UnpackIntoInterface(&ok, "verify", result); err != nil {
		return nil, fmt.Errorf("failed to unpack verify result: %w", err)
	}
	if !ok {
		return nil, domain.NewError(domain.ErrKindSignatureInvalid,
			"forwarder rejected the signature (stale nonce or wrong signer)", nil)
	}

	executeData, err := r.forwarderABI.Pack("execute", tuple, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to pack execute data: %w", err)
	}

	return r.signer.Submit(ctx, gateway.ContractCall{
		To:   r.forwarderAddr,
		Data: executeData,
	})
}

// recoverSigner recomputes the EIP-712 digest and recovers the signing address
func (r *relay) recoverSigner(req domain.ForwardRequest, signature []byte) (string, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"ForwardRequest": {
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "gas", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "data", Type: "bytes"},
			},
		},
		PrimaryType: "ForwardRequest",
		Domain: apitypes.TypedDataDomain{
			Name:              forwarderDomainName,
			Version:           forwarderDomainVersion,
			ChainId:           ethmath.NewHexOrDecimal256(r.chainID),
			VerifyingContract: r.forwarderAddr.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"from":  req.From,
			"to":    req.To,
			"value": req.Value,
			"gas":   req.Gas,
			"nonce": req.Nonce,
			"data":  req.Data,
		},
	}

	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return "", fmt.Errorf("failed to hash typed data: %w", err)
	}

	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// toTuple converts the wire-form request into the ABI tuple
func toTuple(req domain.ForwardRequest) (forwardRequestTuple, error) {
	var tuple forwardRequestTuple

	if !domain.ValidAddress(req.From) || !domain.ValidAddress(req.To) {
		return tuple, domain.NewError(domain.ErrKindValidation, "invalid request address", nil)
	}

	value, ok := new(big.Int).SetString(req.Value, 10)
	if !ok {
		return tuple, domain.NewError(domain.ErrKindValidation, "invalid request value", nil)
	}
	gas, ok := new(big.Int).SetString(req.Gas, 10)
	if !ok {
		return tuple, domain.NewError(domain.ErrKindValidation, "invalid request gas", nil)
	}
	nonce, ok := new(big.Int).SetString(req.Nonce, 10)
	if !ok {
		return tuple, domain.NewError(domain.ErrKindValidation, "invalid request nonce", nil)
	}
	data, err := hexutil.Decode(req.Data)
	if err != nil {
		return tuple, domain.NewError(domain.ErrKindValidation, "invalid request data", err)
	}

	return forwardRequestTuple{
		From:  common.HexToAddress(req.From),
		To:    common.HexToAddress(req.To),
		Value: value,
		Gas:   gas,
		Nonce: nonce,
		Data:  data,
	}, nil
}

// forwardRequestTypes is the type schema wallets need alongside the request
func forwardRequestTypes() map[string][]domain.TypedDataField {
	return map[string][]domain.TypedDataField{
		"EIP712Domain": {
			{Name: "name", Type: "string"},
			{Name: "version", Type: "string"},
			{Name: "chainId", Type: "uint256"},
			{Name: "verifyingContract", Type: "address"},
		},
		"ForwardRequest": {
			{Name: "from", Type: "address"},
			{Name: "to", Type: "address"},
			{Name: "value", Type: "uint256"},
			{Name: "gas", Type: "uint256"},
			{Name: "nonce", Type: "uint256"},
			{Name: "data", Type: "bytes"},
		},
	}
}
