package gateway

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/domain"
	"github.com/kquest/marketplace-core/internal/logger"
)

// ContractCall is one operator-signed write. GasLimit zero means
// estimate immediately before signing.
type ContractCall struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
}

// Signer executes operator-signed writes one at a time. All writes that
// spend the operator's nonce must go through a single Signer instance;
// serialization is what keeps the nonce sequence gapless.
//
//go:generate mockgen -source=signer.go -destination=../mocks/signer.go -package=mocks -mock_names=Signer=MockSigner
type Signer interface {
	// Submit enqueues a call and blocks until it is mined or fails
	Submit(ctx context.Context, call ContractCall) (*domain.TxResult, error)
	// Address returns the operator address
	Address() common.Address
	// Close stops the worker after the current task finishes
	Close()
}

type signerTask struct {
	ctx  context.Context
	call ContractCall
	done chan signerOutcome
}

type signerOutcome struct {
	result *domain.TxResult
	err    error
}

type signerQueue struct {
	client       adapter.EthClient
	clock        adapter.Clock
	key          *ecdsa.PrivateKey
	address      common.Address
	chainID      *big.Int
	pollInterval time.Duration
	timeout      time.Duration

	tasks chan signerTask
	quit  chan struct{}
}

// NewSigner creates the operator signer queue and starts its worker.
// operatorKey is the hex-encoded private key, with or without 0x prefix.
func NewSigner(client adapter.EthClient, clock adapter.Clock, operatorKey string, chainID int64, pollInterval, timeout time.Duration) (Signer, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(operatorKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse operator key: %w", err)
	}

	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}

	s := &signerQueue{
		client:       client,
		clock:        clock,
		key:          key,
		address:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:      big.NewInt(chainID),
		pollInterval: pollInterval,
		timeout:      timeout,
		tasks:        make(chan signerTask),
		quit:         make(chan struct{}),
	}

	go s.run()
	return s, nil
}

func (s *signerQueue) Address() common.Address {
	return s.address
}

// Submit enqueues a call and blocks until it is mined or fails
func (s *signerQueue) Submit(ctx context.Context, call ContractCall) (*domain.TxResult, error) {
	task := signerTask{
		ctx:  ctx,
		call: call,
		done: make(chan signerOutcome, 1),
	}

	select {
	case s.tasks <- task:
	case <-s.quit:
		return nil, domain.NewError(domain.ErrKindLedgerCall, "signer is closed", nil)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// The worker always delivers exactly one outcome; the buffered
	// channel lets it proceed even if this caller gave up.
	select {
	case outcome := <-task.done:
		return outcome.result, outcome.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the worker after the current task finishes
func (s *signerQueue) Close() {
	close(s.quit)
}

func (s *signerQueue) run() {
	for {
		select {
		case task := <-s.tasks:
			result, err := s.execute(task.ctx, task.call)
			task.done <- signerOutcome{result: result, err: err}
		case <-s.quit:
			return
		}
	}
}

// execute runs the full submit cycle for one call: pending nonce, gas
// price with premium, gas limit, sign, send, wait for the receipt.
func (s *signerQueue) execute(ctx context.Context, call ContractCall) (*domain.TxResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nonce, err := s.client.PendingNonceAt(ctx, s.address)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to fetch pending nonce", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to fetch gas price", err)
	}
	gasPrice = applyGasPremium(gasPrice)

	value := call.Value
	if value == nil {
		value = big.NewInt(0)
	}

	gasLimit := call.GasLimit
	if gasLimit == 0 {
		gasLimit, err = s.client.EstimateGas(ctx, ethereum.CallMsg{
			From:  s.address,
			To:    &call.To,
			Value: value,
			Data:  call.Data,
		})
		if err != nil {
			return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to estimate gas", err)
		}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &call.To,
		Value:    value,
		Data:     call.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(s.chainID), s.key)
	if err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to sign transaction", err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return nil, domain.NewError(domain.ErrKindLedgerCall, "failed to send transaction", err)
	}

	txHash := signedTx.Hash()
	logger.Info("transaction submitted",
		zap.String("tx_hash", txHash.Hex()),
		zap.Uint64("nonce", nonce),
		zap.String("gas_price", gasPrice.String()))

	receipt, err := s.waitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, domain.NewError(domain.ErrKindLedgerCall,
			fmt.Sprintf("transaction %s reverted", txHash.Hex()), nil)
	}

	return &domain.TxResult{
		TxHash:      txHash.Hex(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		GasPrice:    gasPrice,
	}, nil
}

// waitMined polls for the receipt until it appears or the timeout lapses
func (s *signerQueue) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	deadline := s.clock.Now().Add(s.timeout)

	for {
		receipt, err := s.client.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		if s.clock.Now().After(deadline) {
			return nil, domain.NewError(domain.ErrKindLedgerCall,
				fmt.Sprintf("timed out waiting for transaction %s", txHash.Hex()), nil)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.clock.After(s.pollInterval):
		}
	}
}

// applyGasPremium adds 10 percent to the suggested gas price so
// operator writes outbid the default fee during mild congestion.
func applyGasPremium(price *big.Int) *big.Int {
	premium := new(big.Int).Mul(price, big.NewInt(110))
	return premium.Div(premium, big.NewInt(100))
}
