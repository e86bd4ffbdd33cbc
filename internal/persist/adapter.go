package persist

import (
	"errors"

	"go.uber.org/zap"

	"ShapeBoard/internal/state"
)

// Adapter reads and writes the board document under one key. It never
// fails its caller: load problems yield an empty log and save problems are
// logged.
type Adapter struct {
	kv     KeyValue
	key    string
	logger *zap.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithKey stores the document under key instead of DefaultKey.
func WithKey(key string) AdapterOption {
	return func(a *Adapter) { a.key = key }
}

func WithLogger(l *zap.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = l }
}

func NewAdapter(kv KeyValue, opts ...AdapterOption) *Adapter {
	a := &Adapter{kv: kv, key: DefaultKey}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.logger = a.logger.Named("persist").With(zap.String("key", a.key))
	return a
}

// Load returns the stored history, or an empty log when nothing usable is
// stored.
func (a *Adapter) Load() state.Log {
	raw, err := a.kv.Get(a.key)
	if errors.Is(err, ErrNotFound) {
		a.logger.Debug("no saved board")
		return state.EmptyLog()
	}
	if err != nil {
		a.logger.Warn("read failed, starting empty", zap.Error(err))
		return state.EmptyLog()
	}
	doc, err := Decode([]byte(raw))
	if err != nil {
		a.logger.Warn("saved board unreadable, starting empty", zap.Error(err))
		return state.EmptyLog()
	}
	l := Normalize(doc)
	a.logger.Info("board loaded",
		zap.Int("snapshots", len(l.Snapshots)),
		zap.Int("cursor", l.Cursor))
	return l
}

// Save overwrites the stored document with the live board and history. It
// has the shape of an editor.ChangeFunc.
func (a *Adapter) Save(board []state.Shape, l state.Log) {
	data, err := Encode(board, l)
	if err != nil {
		a.logger.Error("encode failed", zap.Error(err))
		return
	}
	if err := a.kv.Set(a.key, string(data)); err != nil {
		a.logger.Error("write failed", zap.Error(err))
		return
	}
	a.logger.Debug("board saved", zap.Int("shapes", len(board)), zap.Int("bytes", len(data)))
}
