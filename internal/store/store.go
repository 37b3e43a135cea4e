// Ludoscope - Game Library Mood & Behavioral Prediction Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ludoscope

// Package store provides BadgerDB-backed implementations of the
// component store interfaces (mood patterns, behavior patterns,
// session resonance) for persistence across restarts. Records are
// stored as JSON under typed key prefixes.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for BadgerDB storage
const (
	patternKeyPrefix   = "pattern:"
	behaviorKeyPrefix  = "behavior:"
	resonanceKeyPrefix = "resonance:"
)

// Options configures the embedded database.
type Options struct {
	// Path is the on-disk directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM, for tests and ephemeral runs.
	InMemory bool
}

// Open opens the embedded BadgerDB. The caller owns closing it.
func Open(opts Options) (*badger.DB, error) {
	bopts := badger.DefaultOptions(opts.Path).WithLogger(nil)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	return db, nil
}

// deletePrefix removes all keys under a prefix in one transaction.
func deletePrefix(db *badger.DB, prefix []byte) error {
	keys := make([][]byte, 0)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}
