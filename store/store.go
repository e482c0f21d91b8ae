package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zooyer/cad"
)

var ErrNotFound = errors.New("cad not found")

// Store 图纸的持久化。Save 按 id 覆盖或追加，返回由导出数据重新构造的副本
type Store interface {
	Load(ctx context.Context) ([]*cad.Data, error)
	Get(ctx context.Context, id string) (*cad.Data, error)
	Save(ctx context.Context, list []*cad.Data) ([]*cad.Data, error)
	Close() error
}

// record 一条待保存的图纸及其导出的 JSON
type record struct {
	id   string
	name string
	data json.RawMessage
}

// encode 导出图纸并重新构造，返回 JSON 与规范化后的副本
func encode(list []*cad.Data) ([]record, []*cad.Data, error) {
	var (
		records = make([]record, 0, len(list))
		result  = make([]*cad.Data, 0, len(list))
	)
	for _, d := range list {
		data, err := json.Marshal(d)
		if err != nil {
			return nil, nil, fmt.Errorf("export %s: %w", d.ID, err)
		}
		canonical, err := cad.Decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("rebuild %s: %w", d.ID, err)
		}
		records = append(records, record{id: canonical.ID, name: canonical.Name, data: data})
		result = append(result, canonical)
	}
	return records, result, nil
}

func decode(data []byte) (*cad.Data, error) {
	d, err := cad.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode cad: %w", err)
	}
	return d, nil
}
