// Package assets provides a ledger-backed implementation of the
// asset-transfer collaborator: per-account balances moved in and out of a
// dedicated engine account. Assets can be configured with a transfer fee so
// the engine's received-amount verification paths can be exercised against
// fee-on-transfer behaviour.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/curvex-network/curvex-daemon/internal/core/ports"
	"github.com/curvex-network/curvex-daemon/pkg/mathutil"
)

// EngineAccount is the account holding all liquidity deposited with the
// engine.
const EngineAccount = "engine"

// ErrInsufficientBalance is thrown when an account can not cover a transfer
var ErrInsufficientBalance = errors.New("insufficient balance")

type balanceKey struct {
	asset   string
	account string
}

// Ledger is an in-process balance ledger implementing ports.AssetTransferor.
type Ledger struct {
	balances     map[balanceKey]uint64
	transferFees map[string]uint32
	lock         sync.RWMutex
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:     map[balanceKey]uint64{},
		transferFees: map[string]uint32{},
	}
}

var _ ports.AssetTransferor = (*Ledger)(nil)

// Fund credits the given account, minting the amount out of nowhere.
func (l *Ledger) Fund(asset, account string, amount uint64) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.balances[balanceKey{asset, account}] += amount
}

// SetTransferFee makes every transfer of the given asset burn the given ppm
// share in transit, emulating a fee-on-transfer asset.
func (l *Ledger) SetTransferFee(asset string, feePPM uint32) {
	l.lock.Lock()
	defer l.lock.Unlock()

	l.transferFees[asset] = feePPM
}

// BalanceOf returns the account's balance of the given asset.
func (l *Ledger) BalanceOf(asset, account string) uint64 {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.balances[balanceKey{asset, account}]
}

// TransferIn moves the amount from the account to the engine account and
// returns the amount actually credited, net of any transfer fee.
func (l *Ledger) TransferIn(
	ctx context.Context, asset, from string, amount uint64,
) (uint64, error) {
	return l.transfer(asset, from, EngineAccount, amount)
}

// TransferOut moves the amount from the engine account to the given account.
func (l *Ledger) TransferOut(
	ctx context.Context, asset, to string, amount uint64,
) error {
	_, err := l.transfer(asset, EngineAccount, to, amount)
	return err
}

func (l *Ledger) transfer(
	asset, from, to string, amount uint64,
) (uint64, error) {
	if amount == 0 {
		return 0, nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	fromKey := balanceKey{asset, from}
	if l.balances[fromKey] < amount {
		return 0, fmt.Errorf(
			"%w: %s misses %d of asset %s",
			ErrInsufficientBalance, from, amount-l.balances[fromKey], asset,
		)
	}

	received := amount
	if feePPM := l.transferFees[asset]; feePPM > 0 {
		net, _, err := mathutil.LessFee(amount, feePPM)
		if err != nil {
			return 0, err
		}
		received = net
	}

	l.balances[fromKey] -= amount
	l.balances[balanceKey{asset, to}] += received
	return received, nil
}
