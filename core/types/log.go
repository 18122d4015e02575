// log.go implements log filter matching, used to pick Goat module
// contract events out of execution-layer log streams.
package types

// LogFilter defines criteria for matching logs. A log matches if:
//   - Addresses is empty OR the log address is in Addresses.
//   - For each position i in Topics: Topics[i] is empty (wildcard)
//     OR the log's topic at position i is in Topics[i].
type LogFilter struct {
	// Addresses restricts matching to logs from these contract addresses.
	// An empty slice matches all addresses.
	Addresses []Address

	// Topics is a positional filter. Each inner slice represents acceptable
	// values for that topic index (OR within position, AND across positions).
	// A nil or empty inner slice matches any value at that position.
	Topics [][]Hash

	// BlockRange restricts matching to logs within a block number range.
	FromBlock uint64
	ToBlock   uint64
}

// BridgeLogFilter matches events emitted by the bridge and bitcoin module
// contracts within the given block range. Withdrawal requests, cancellations
// and bitcoin header submissions all surface as logs from these addresses.
func BridgeLogFilter(fromBlock, toBlock uint64) *LogFilter {
	return &LogFilter{
		Addresses: []Address{GoatBridgeContract, GoatBitcoinContract},
		FromBlock: fromBlock,
		ToBlock:   toBlock,
	}
}

// LockingLogFilter matches events emitted by the locking module contract
// within the given block range.
func LockingLogFilter(fromBlock, toBlock uint64) *LogFilter {
	return &LogFilter{
		Addresses: []Address{GoatLockingContract},
		FromBlock: fromBlock,
		ToBlock:   toBlock,
	}
}

// FilterMatch returns true if the log satisfies the given filter criteria.
func FilterMatch(l *Log, f *LogFilter) bool {
	if l == nil || f == nil {
		return false
	}

	// Check block range.
	if f.FromBlock > 0 && l.BlockNumber < f.FromBlock {
		return false
	}
	if f.ToBlock > 0 && l.BlockNumber > f.ToBlock {
		return false
	}

	// Check address filter.
	if len(f.Addresses) > 0 {
		found := false
		for _, addr := range f.Addresses {
			if l.Address == addr {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Check topic filters.
	for i, topicSet := range f.Topics {
		if len(topicSet) == 0 {
			// Wildcard: any topic at this position is acceptable.
			continue
		}
		if i >= len(l.Topics) {
			return false
		}
		found := false
		for _, t := range topicSet {
			if l.Topics[i] == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterLogs applies the filter criteria to a list of logs and returns
// only those that match.
func FilterLogs(logs []*Log, f *LogFilter) []*Log {
	if f == nil || len(logs) == 0 {
		return nil
	}
	var result []*Log
	for _, l := range logs {
		if FilterMatch(l, f) {
			result = append(result, l)
		}
	}
	return result
}
