package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OrderedMap 保持键顺序的 JSON 对象，导出结果因此是确定的
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

func (m *OrderedMap[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap[V]) Get(key string) (value V, ok bool) {
	value, ok = m.values[key]
	return
}

func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

func (m *OrderedMap[V]) Keys() []string {
	return m.keys
}

// Range 按插入顺序遍历，fn 返回 false 时停止
func (m *OrderedMap[V]) Range(fn func(key string, value V) bool) {
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	*m = OrderedMap[V]{}

	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ordered map: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("ordered map: expected key, got %v", tok)
		}
		var value V
		if err = dec.Decode(&value); err != nil {
			return fmt.Errorf("ordered map: key %q: %w", key, err)
		}
		m.Set(key, value)
	}

	_, err = dec.Token()
	return err
}
