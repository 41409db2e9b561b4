package formstate

// CommitHistory appends current to history unless it deep-equals the newest
// entry, then drops entries from the front until at most maxLen remain. The
// input slice is returned untouched when nothing was committed or history is
// disabled (maxLen <= 0); otherwise the result is a fresh slice.
func CommitHistory(history []Record, current Record, maxLen int) []Record {
	if maxLen <= 0 {
		return history
	}
	if n := len(history); n > 0 && RecordsEqual(history[n-1], current) {
		return history
	}
	next := make([]Record, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, cloneRecord(current))
	if over := len(next) - maxLen; over > 0 {
		next = next[over:]
	}
	return next
}

// OffsetHistory clamps index+delta into the history and returns a copy of the
// snapshot found there together with the clamped index.
func OffsetHistory(history []Record, index, delta int) (Record, int, error) {
	if history == nil {
		return nil, index, ErrHistoryDisabled
	}
	if len(history) == 0 {
		return nil, index, ErrHistoryEmpty
	}
	next := clampIndex(index+delta, len(history))
	return cloneRecord(history[next]), next, nil
}

// CollapseHistory collapses history to the single snapshot at index.
func CollapseHistory(history []Record, index int) []Record {
	if len(history) <= 1 {
		return history
	}
	return []Record{history[clampIndex(index, len(history))]}
}

func clampIndex(index, length int) int {
	if index > length-1 {
		index = length - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

func tailIndex(history []Record) int {
	if len(history) == 0 {
		return 0
	}
	return len(history) - 1
}
