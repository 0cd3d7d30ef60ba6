// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the pool.
// It follows the flow as bellow:
//
//	        o
//	        |
//	[ revertable state ]
//	        |
//	 [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	        |
//	  [ lru cache ]
//	        |
//	   [ kv store ]
//
// Every storage slot is addressed by the contract address and a 32 bytes key,
// and holds an rlp encoded value. Empty value means the slot is absent.
package state
