package ledger

// keyList ordered key set with constant-time removal
//
// Removal moves the last key into the freed slot, so order is not preserved across removals.
type keyList struct {
	keys  []string
	index map[string]int
}

func newKeyList() *keyList {
	return &keyList{index: map[string]int{}}
}

func (l *keyList) Add(key string) bool {
	if _, ok := l.index[key]; ok {
		return false
	}

	l.index[key] = len(l.keys)
	l.keys = append(l.keys, key)
	return true
}

func (l *keyList) Remove(key string) bool {
	idx, ok := l.index[key]
	if !ok {
		return false
	}

	last := len(l.keys) - 1
	if idx != last {
		moved := l.keys[last]
		l.keys[idx] = moved
		l.index[moved] = idx
	}

	l.keys = l.keys[:last]
	delete(l.index, key)
	return true
}

func (l *keyList) Has(key string) bool {
	_, ok := l.index[key]
	return ok
}

func (l *keyList) Len() int {
	return len(l.keys)
}

func (l *keyList) Keys() []string {
	return append([]string(nil), l.keys...)
}
