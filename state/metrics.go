// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

var (
	logger = log.WithContext("pkg", "state")

	metricStorageCounter = metrics.LazyLoadCounterVec("state_storage_count", []string{"type"})
	metricCacheHitMiss   = metrics.LazyLoadGaugeVec("state_cache_hit_miss_count", []string{"event"})
)

func (s *State) reportCacheStats() {
	changed, hit, miss := s.cache.Stats()
	metricCacheHitMiss().SetWithLabel(hit, map[string]string{"event": "hit"})
	metricCacheHitMiss().SetWithLabel(miss, map[string]string{"event": "miss"})
	if changed && hit+miss > 0 {
		logger.Debug("slot cache stats", "hit", hit, "miss", miss, "rate", float64(hit)/float64(hit+miss))
	}
}
