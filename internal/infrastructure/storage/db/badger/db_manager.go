package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/curvex-network/curvex-daemon/internal/core/domain"
	"github.com/curvex-network/curvex-daemon/internal/core/ports"
)

// RepoManager is the persistent implementation of ports.RepoManager backed
// by a single badger store on disk.
type RepoManager struct {
	store *badgerhold.Store

	pairRepository     domain.PairRepository
	strategyRepository domain.StrategyRepository
	feeRepository      domain.FeeRepository
}

var _ ports.RepoManager = (*RepoManager)(nil)

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (*RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening engine db: %w", err)
	}

	rm := &RepoManager{store: store}
	rm.pairRepository = newPairRepositoryImpl(rm)
	rm.strategyRepository = newStrategyRepositoryImpl(rm)
	rm.feeRepository = newFeeRepositoryImpl(rm)
	return rm, nil
}

// Store exposes the underlying badgerhold store so persistent collaborator
// implementations can live in the same data dir as the engine state.
func (d *RepoManager) Store() *badgerhold.Store {
	return d.store
}

func (d *RepoManager) PairRepository() domain.PairRepository {
	return d.pairRepository
}

func (d *RepoManager) StrategyRepository() domain.StrategyRepository {
	return d.strategyRepository
}

func (d *RepoManager) FeeRepository() domain.FeeRepository {
	return d.feeRepository
}

// RunTransaction runs the handler within a single badger transaction carried
// by the context, committing it only if the handler succeeds.
func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (d *RepoManager) Close() {
	d.store.Close()
}

func txFromContext(ctx context.Context) *badger.Txn {
	if tx, ok := ctx.Value("tx").(*badger.Txn); ok {
		return tx
	}
	return nil
}

func (d *RepoManager) insert(ctx context.Context, key, value interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return d.store.TxInsert(tx, key, value)
	}
	return d.store.Insert(key, value)
}

func (d *RepoManager) upsert(ctx context.Context, key, value interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return d.store.TxUpsert(tx, key, value)
	}
	return d.store.Upsert(key, value)
}

func (d *RepoManager) get(ctx context.Context, key, result interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return d.store.TxGet(tx, key, result)
	}
	return d.store.Get(key, result)
}

func (d *RepoManager) delete(ctx context.Context, key, dataType interface{}) error {
	if tx := txFromContext(ctx); tx != nil {
		return d.store.TxDelete(tx, key, dataType)
	}
	return d.store.Delete(key, dataType)
}

func (d *RepoManager) find(
	ctx context.Context, result interface{}, query *badgerhold.Query,
) error {
	if tx := txFromContext(ctx); tx != nil {
		return d.store.TxFind(tx, result, query)
	}
	return d.store.Find(result, query)
}

// counter is a monotonically increasing id assigner. Counters are never
// decremented so deleted records can't cause id reuse.
type counter struct {
	Value uint64
}

func (d *RepoManager) nextID(ctx context.Context, key string) (uint64, error) {
	var c counter
	if err := d.get(ctx, key, &c); err != nil && err != badgerhold.ErrNotFound {
		return 0, err
	}
	c.Value++
	if err := d.upsert(ctx, key, &c); err != nil {
		return 0, err
	}
	return c.Value, nil
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
