// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists the idea graph (Projects, Ideas, Connections) and
// the per-project context ledger on BadgerDB.
//
// Layout:
//
//	p:<projectID>             -> Project JSON
//	i:<ideaID>                -> Idea JSON
//	c:<connectionID>          -> Connection JSON
//	pi:<projectID>:<ideaID>   -> (index) ideas of a project
//	ic:<ideaID>:<connID>      -> (index) connections touching an idea
//
// Every mutation runs inside a single Badger transaction, so a cascade
// delete or a context-blob update is committed fully or not at all. Reads
// never observe a half-applied write.
//
// Referential integrity enforced here:
//   - an Idea's project must exist
//   - an Idea's parent (when set) must exist and belong to the same project
//   - a Connection's endpoints must exist and belong to the same project
//
// Violations of the existence rules return ErrNotFound; cross-project
// references return ErrInvalidReference so callers can distinguish a
// missing record from a well-formed but illegal link.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound indicates a referenced Project, Idea, or Connection
	// identifier does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidReference indicates a parent or endpoint reference that
	// exists but crosses a project boundary.
	ErrInvalidReference = errors.New("reference crosses project boundary")
)

// Key prefixes. Kept to two characters so prefix scans stay cheap.
const (
	prefixProject   = "p:"
	prefixIdea      = "i:"
	prefixConn      = "c:"
	prefixProjIdeas = "pi:"
	prefixIdeaConns = "ic:"
)

func projectKey(id string) []byte { return []byte(prefixProject + id) }
func ideaKey(id string) []byte    { return []byte(prefixIdea + id) }
func connKey(id string) []byte    { return []byte(prefixConn + id) }
func projIdeaKey(pid, iid string) []byte {
	return []byte(prefixProjIdeas + pid + ":" + iid)
}
func ideaConnKey(iid, cid string) []byte {
	return []byte(prefixIdeaConns + iid + ":" + cid)
}

// Config holds configuration for a GraphStore instance.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs. If nil, they are disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: durable writes at the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests: no disk I/O, no sync.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// GraphStore is the persistence layer for the idea graph and context ledger.
//
// Thread Safety: safe for concurrent use. Badger serializes conflicting
// writes; concurrent updates to the same record resolve to the last
// committed write.
type GraphStore struct {
	db  *badger.DB
	now func() time.Time
}

// Open creates and opens a GraphStore with the given configuration.
//
// The returned store must be closed with Close() when done.
func Open(cfg Config) (*GraphStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &GraphStore{db: db, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *GraphStore) Close() error {
	return s.db.Close()
}

// --- transaction helpers ---

// getJSON reads and decodes a record inside a transaction. A missing key
// maps to ErrNotFound.
func getJSON(txn *badger.Txn, key []byte, out interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

// setJSON encodes and writes a record inside a transaction.
func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Set(key, data)
}

// decodeInto unmarshals a value copy produced by an iterator.
func decodeInto(val []byte, out interface{}) error {
	return json.Unmarshal(val, out)
}

// exists reports whether a key is present.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// scanIndex collects the trailing segment of every key under prefix.
// For an index key "pi:<pid>:<iid>" with prefix "pi:<pid>:", that is the
// idea ID.
func scanIndex(txn *badger.Txn, prefix string) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		key := string(it.Item().Key())
		ids = append(ids, strings.TrimPrefix(key, prefix))
	}
	return ids, nil
}
