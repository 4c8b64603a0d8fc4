package kv

// MemoryKV keeps values in a map and counts writes per key.
type MemoryKV struct {
	data   map[string][]byte
	writes map[string]int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}, writes: map[string]int{}}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	m.writes[key]++
	return nil
}

// Writes reports how many times key was set.
func (m *MemoryKV) Writes(key string) int { return m.writes[key] }
