package domain

// PickRecord is the insertion-ordered record of drawn values, keyed by step key.
// Entries are never overwritten once set.
type PickRecord struct {
	keys   []string
	values map[string]string
}

// NewPickRecord creates an empty record.
func NewPickRecord() *PickRecord {
	return &PickRecord{values: make(map[string]string)}
}

// Set records value for key. It returns false if key was already set.
func (p *PickRecord) Set(key, value string) bool {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, exists := p.values[key]; exists {
		return false
	}
	p.keys = append(p.keys, key)
	p.values[key] = value
	return true
}

// Get returns the value picked for key.
func (p *PickRecord) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of recorded picks.
func (p *PickRecord) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the picked keys in insertion order.
func (p *PickRecord) Keys() []string {
	if p == nil {
		return nil
	}
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Map returns a copy of the picks as a plain map.
func (p *PickRecord) Map() map[string]string {
	out := make(map[string]string, p.Len())
	if p == nil {
		return out
	}
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy safe for independent mutation.
func (p *PickRecord) Clone() *PickRecord {
	c := NewPickRecord()
	if p == nil {
		return c
	}
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}
