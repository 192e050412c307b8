package slot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/badgerdb"
	"github.com/dgraph-io/badger/v4"
)

const (
	// QueueKey is the single key holding the whole queue.
	QueueKey = "seedQueue"

	_conflictRetries = 5
)

type QueueSlotRepo struct {
	*badgerdb.Badger
	key []byte
}

func NewQueueSlotRepo(b *badgerdb.Badger) *QueueSlotRepo {
	return &QueueSlotRepo{b, []byte(QueueKey)}
}

func (r *QueueSlotRepo) Load(ctx context.Context) ([]entity.QueuedSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("QueueSlotRepo - Load - ctx.Err: %w", err)
	}

	var queue []entity.QueuedSubmission

	err := r.DB.View(func(txn *badger.Txn) error {
		var err error
		queue, err = r.read(txn)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("QueueSlotRepo - Load - r.DB.View: %w", err)
	}

	return queue, nil
}

// Update reads the list, applies fn and writes the result in one transaction.
// A conflicting concurrent writer makes the commit fail; it is retried on a fresh read.
func (r *QueueSlotRepo) Update(ctx context.Context, fn func([]entity.QueuedSubmission) ([]entity.QueuedSubmission, error)) error {
	var err error

	for attempt := 0; attempt < _conflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return fmt.Errorf("QueueSlotRepo - Update - ctx.Err: %w", err)
		}

		err = r.DB.Update(func(txn *badger.Txn) error {
			queue, err := r.read(txn)
			if err != nil {
				return err
			}

			queue, err = fn(queue)
			if err != nil {
				return err
			}

			return r.write(txn, queue)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("QueueSlotRepo - Update - r.DB.Update: %w", err)
	}

	return nil
}

func (r *QueueSlotRepo) read(txn *badger.Txn) ([]entity.QueuedSubmission, error) {
	item, err := txn.Get(r.key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return []entity.QueuedSubmission{}, nil
		}

		return nil, fmt.Errorf("txn.Get: %w", err)
	}

	var queue []entity.QueuedSubmission

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &queue)
	})
	if err != nil {
		return nil, fmt.Errorf("item.Value: %w", err)
	}

	if queue == nil {
		queue = []entity.QueuedSubmission{}
	}

	return queue, nil
}

func (r *QueueSlotRepo) write(txn *badger.Txn, queue []entity.QueuedSubmission) error {
	if queue == nil {
		queue = []entity.QueuedSubmission{}
	}

	b, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := txn.Set(r.key, b); err != nil {
		return fmt.Errorf("txn.Set: %w", err)
	}

	return nil
}
