// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/cache"
	"github.com/vechain/rewardpool/kv"
)

// Stage abstracts changes on the storage.
type Stage struct {
	store   kv.Store
	cache   *cache.LRU
	changes map[storageKey]rlp.RawValue
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit commits all changes into the store.
// The committed values are also refreshed in the slot cache.
func (s *Stage) Commit() (int, error) {
	if len(s.changes) == 0 {
		return 0, nil
	}
	bulk := s.store.Bulk()
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.dbKey())
		} else {
			err = bulk.Put(k.dbKey(), v)
		}
		if err != nil {
			return 0, err
		}
	}
	if err := bulk.Write(); err != nil {
		return 0, err
	}
	for k, v := range s.changes {
		s.cache.Add(k, v)
	}
	metricStorageCounter().AddWithLabel(int64(len(s.changes)), map[string]string{"type": "commit"})
	return len(s.changes), nil
}
