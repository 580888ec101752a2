package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"todolists/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists one document per session id.
//
// Get returns ErrSessionNotFound for unknown ids. Put replaces the whole
// document; concurrent writers for the same id are last-write-wins.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Document, error)
	Put(ctx context.Context, id string, doc *model.Document) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]SessionInfo, error)
	Prune(ctx context.Context, olderThan time.Time) (int, error)
	Close() error
}

type SessionInfo struct {
	ID        string    `json:"id"`
	Lists     int       `json:"lists"`
	Todos     int       `json:"todos"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open returns the session store for backend. dataDir is required for sqlite.
func Open(ctx context.Context, backend, dataDir string) (SessionStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if strings.TrimSpace(dataDir) == "" {
			return nil, errors.New("store: sqlite backend requires a data dir")
		}
		return OpenSQLite(ctx, dataDir)
	default:
		return nil, errors.New("store: invalid backend (expected memory|sqlite)")
	}
}

func infoFor(id string, doc *model.Document, updated time.Time) SessionInfo {
	info := SessionInfo{ID: id, UpdatedAt: updated}
	if doc == nil {
		return info
	}
	info.Lists = len(doc.Lists)
	for _, l := range doc.Lists {
		info.Todos += len(l.Todos)
	}
	return info
}
