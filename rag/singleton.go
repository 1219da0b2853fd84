package rag

import (
	"context"
	"sync"
)

// singletonMu guards the process-wide manager instance and its config,
// mirroring the double-checked-lock shape the teacher's dbRegistry used
// for factory registration: a read-mostly path under RLock, falling
// through to a full Lock only when (re)dialing is actually needed.
var (
	singletonMu      sync.RWMutex
	singletonManager *VectorStoreManager
	singletonCfg     ManagerConfig
)

// SharedManager returns the process-wide VectorStoreManager, dialing on
// first use and redialing whenever cfg's connection identity changes
// from the one currently active. Concurrent callers requesting the same
// cfg never race a double-dial: every caller that observes a stale or
// absent manager queues for the write lock, and the re-check under it
// means only the first of them dials.
func SharedManager(ctx context.Context, cfg ManagerConfig) (*VectorStoreManager, error) {
	singletonMu.RLock()
	m := singletonManager
	needsReconnect := m == nil || singletonCfg.IsNeedReconnect(cfg)
	singletonMu.RUnlock()

	if !needsReconnect {
		return m, nil
	}

	singletonMu.Lock()
	defer singletonMu.Unlock()

	if singletonManager != nil && !singletonCfg.IsNeedReconnect(cfg) {
		return singletonManager, nil
	}

	if singletonManager != nil {
		_ = singletonManager.Close()
	}

	newManager, err := NewVectorStoreManager(ctx, cfg)
	if err != nil {
		return nil, err
	}

	singletonManager = newManager
	singletonCfg = cfg
	return newManager, nil
}

// ResetSharedManager closes and clears the process-wide manager, for use
// between tests that each need a fresh connection.
func ResetSharedManager() {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	if singletonManager != nil {
		_ = singletonManager.Close()
	}
	singletonManager = nil
	singletonCfg = ManagerConfig{}
}
