package server

import (
	"slices"
	"sync"
)

// idLocks 按图纸 id 串行化读改写，不同 id 互不阻塞
type idLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *idLocks) get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = new(sync.Mutex)
		l.locks[id] = m
	}
	return m
}

// lock 按排序后的顺序加锁，返回解锁函数
func (l *idLocks) lock(ids ...string) (unlock func()) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	var held = make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		m := l.get(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
