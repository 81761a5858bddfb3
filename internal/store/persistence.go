// Package store owns the persisted state of the stall: the menu catalog, the
// transaction and expenditure ledgers, and the store profile. Each collection
// is one JSON blob under a fixed key, written whole on every change.
package store

import (
	"context"
	"errors"
)

// Storage keys. Versioned so a future format can live beside the old one.
const (
	KeyMenu         = "NASIGOR_MENU_V1"
	KeyTransactions = "NASIGOR_TRX_V1"
	KeyExpenditures = "NASIGOR_EXP_V1"
	KeyProfile      = "NASIGOR_PROFILE_V1"
)

// Keys lists every key the application owns.
var Keys = []string{KeyMenu, KeyTransactions, KeyExpenditures, KeyProfile}

var ErrNotFound = errors.New("key not found")

// Persistence is a key/blob store. Get returns ErrNotFound for absent keys.
type Persistence interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
