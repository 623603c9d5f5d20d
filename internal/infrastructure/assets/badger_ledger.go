package assets

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// balanceRecord is the stored form of an account balance, keyed by asset and
// account. Assets are fixed-length hex hashes so the concatenated key is
// unambiguous.
type balanceRecord struct {
	Key     string `badgerhold:"key"`
	Asset   string
	Account string
	Amount  uint64
}

func balanceKeyOf(asset, account string) string {
	return asset + ":" + account
}

// BadgerLedger is a balance ledger persisting its accounts to the given
// badger store, so credits survive across processes sharing the same data
// dir. Unlike the in-memory Ledger it models no fee-on-transfer behaviour.
type BadgerLedger struct {
	store *badgerhold.Store
}

// NewBadgerLedger returns a ledger persisting balances to the given store.
func NewBadgerLedger(store *badgerhold.Store) *BadgerLedger {
	return &BadgerLedger{store: store}
}

var _ ports.AssetTransferor = (*BadgerLedger)(nil)

// Fund credits the given account, minting the amount out of nowhere.
func (l *BadgerLedger) Fund(asset, account string, amount uint64) error {
	return l.store.Badger().Update(func(tx *badger.Txn) error {
		return l.credit(tx, asset, account, amount)
	})
}

// BalanceOf returns the account's balance of the given asset.
func (l *BadgerLedger) BalanceOf(asset, account string) (uint64, error) {
	var record balanceRecord
	err := l.store.Get(balanceKeyOf(asset, account), &record)
	if err == badgerhold.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return record.Amount, nil
}

func (l *BadgerLedger) TransferIn(
	_ context.Context, asset, from string, amount uint64,
) (uint64, error) {
	if err := l.transfer(asset, from, EngineAccount, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func (l *BadgerLedger) TransferOut(
	_ context.Context, asset, to string, amount uint64,
) error {
	return l.transfer(asset, EngineAccount, to, amount)
}

func (l *BadgerLedger) transfer(asset, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	return l.store.Badger().Update(func(tx *badger.Txn) error {
		var fromRecord balanceRecord
		err := l.store.TxGet(tx, balanceKeyOf(asset, from), &fromRecord)
		if err != nil && err != badgerhold.ErrNotFound {
			return err
		}
		if fromRecord.Amount < amount {
			return fmt.Errorf(
				"%w: %s misses %d of asset %s",
				ErrInsufficientBalance, from, amount-fromRecord.Amount, asset,
			)
		}

		fromRecord.Amount -= amount
		if err := l.store.TxUpsert(tx, balanceKeyOf(asset, from), &balanceRecord{
			Key:     balanceKeyOf(asset, from),
			Asset:   asset,
			Account: from,
			Amount:  fromRecord.Amount,
		}); err != nil {
			return err
		}
		return l.credit(tx, asset, to, amount)
	})
}

func (l *BadgerLedger) credit(
	tx *badger.Txn, asset, account string, amount uint64,
) error {
	var record balanceRecord
	err := l.store.TxGet(tx, balanceKeyOf(asset, account), &record)
	if err != nil && err != badgerhold.ErrNotFound {
		return err
	}
	return l.store.TxUpsert(tx, balanceKeyOf(asset, account), &balanceRecord{
		Key:     balanceKeyOf(asset, account),
		Asset:   asset,
		Account: account,
		Amount:  record.Amount + amount,
	})
}
