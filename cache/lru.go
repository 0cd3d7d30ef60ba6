// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
)

// LRU wraps golang-lru with a read-through loader and hit/miss counters.
type LRU struct {
	*lru.Cache
	hit, miss atomic.Int64
	rate      atomic.Int32 // last reported hit rate in permille
}

// NewLRU creates a LRU holding at most maxSize entries. maxSize must be > 0.
func NewLRU(maxSize int) (*LRU, error) {
	c, err := lru.New(maxSize)
	if err != nil {
		return nil, err
	}
	return &LRU{Cache: c}, nil
}

// Loader loads the value of a missed key.
type Loader func(key any) (any, error)

// GetOrLoad returns the cached value, or loads and caches it. Load errors are not cached.
func (l *LRU) GetOrLoad(key any, loader Loader) (any, error) {
	if v, ok := l.Get(key); ok {
		l.hit.Add(1)
		return v, nil
	}
	l.miss.Add(1)
	v, err := loader(key)
	if err != nil {
		return nil, err
	}
	l.Add(key, v)
	return v, nil
}

// Stats returns the GetOrLoad hit and miss counts, and whether the hit rate
// moved since the previous call.
func (l *LRU) Stats() (changed bool, hit, miss int64) {
	hit, miss = l.hit.Load(), l.miss.Load()
	var rate int32
	if total := hit + miss; total > 0 {
		rate = int32(hit * 1000 / total) //#nosec G115
	}
	return l.rate.Swap(rate) != rate, hit, miss
}
