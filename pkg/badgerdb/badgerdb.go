package badgerdb

import (
	"fmt"

	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/dgraph-io/badger/v4"
)

type Badger struct {
	path     string
	inMemory bool

	logger logger.Interface

	DB *badger.DB
}

// New opens the store at path. Badger holds a directory lock, so a second
// process opening the same path fails instead of sharing it.
func New(path string, l logger.Interface, opts ...Option) (*Badger, error) {
	b := &Badger{
		path:   path,
		logger: l,
	}

	for _, opt := range opts {
		opt(b)
	}

	options := badger.DefaultOptions(b.path).
		WithLogger(badgerLogger{l}).
		WithLoggingLevel(badger.WARNING)
	if b.inMemory {
		options = options.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("Badger - New - badger.Open: %w", err)
	}
	b.DB = db

	return b, nil
}

func (b *Badger) Close() error {
	if b.DB == nil {
		return nil
	}

	if err := b.DB.Close(); err != nil {
		return fmt.Errorf("Badger - Close - b.DB.Close: %w", err)
	}

	return nil
}

// badgerLogger routes badger's own logging into logger.Interface.
type badgerLogger struct {
	l logger.Interface
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug(format, args...)
}
