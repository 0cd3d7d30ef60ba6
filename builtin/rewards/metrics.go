// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
)

var (
	logger = log.WithContext("pkg", "rewards")

	metricOperations = metrics.LazyLoadCounterVec("rewards_operation_count", []string{"op", "result"})
	metricRewardPaid = metrics.LazyLoadCounter("rewards_paid_count")
)

func SetLogger(l log.Logger) {
	logger = l
}

func markOperation(op string, err error) {
	result := "success"
	if err != nil {
		result = "revert"
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result})
}
