package tree

// Record is an ordered, string keyed node of a resource tree.
// Key order is the order keys were first set and is the order they are serialized in.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates a record, pairs are given as key, value, key, value...
func NewRecord(pairs ...any) *Record {
	r := &Record{values: make(map[string]any, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			continue
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

// Set assigns value to key, a new key is appended at the end
func (r *Record) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns value for the key
func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}
	value, ok := r.values[key]
	return value, ok
}

// Has returns true if key is defined
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key, it returns false if key was not defined
func (r *Record) Delete(key string) bool {
	if !r.Has(key) {
		return false
	}
	delete(r.values, key)
	for i, candidate := range r.keys {
		if candidate == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns keys in serialization order
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	result := make([]string, len(r.keys))
	copy(result, r.keys)
	return result
}

// Len returns number of keys
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Clone returns a shallow copy: nested records and arrays are shared
func (r *Record) Clone() *Record {
	clone := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(clone.keys, r.keys)
	for k, v := range r.values {
		clone.values[k] = v
	}
	return clone
}
