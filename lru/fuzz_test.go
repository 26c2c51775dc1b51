package lru

import (
	"slices"
	"testing"
)

// model is a slow reference LRU: keys ordered MRU first.
type model struct {
	capacity int
	order    []byte
	vals     map[byte]int
}

func (m *model) touch(k byte) {
	m.order = slices.DeleteFunc(m.order, func(x byte) bool { return x == k })
	m.order = append([]byte{k}, m.order...)
}

func (m *model) set(k byte, v int) {
	m.vals[k] = v
	m.touch(k)
	for len(m.order) > m.capacity {
		last := m.order[len(m.order)-1]
		m.order = m.order[:len(m.order)-1]
		delete(m.vals, last)
	}
}

func (m *model) get(k byte) (int, bool) {
	v, ok := m.vals[k]
	if ok {
		m.touch(k)
	}
	return v, ok
}

func (m *model) remove(k byte) bool {
	if _, ok := m.vals[k]; !ok {
		return false
	}
	delete(m.vals, k)
	m.order = slices.DeleteFunc(m.order, func(x byte) bool { return x == k })
	return true
}

// Drives the engine and the model with the same op stream.
// Each pair of bytes is (op, key); keys are folded into a small space
// so that hits, updates and evictions all happen often.
func FuzzLRU_MatchesModel(f *testing.F) {
	f.Add([]byte{0, 1, 0, 2, 1, 1, 0, 3, 0, 4, 0, 5, 1, 2})
	f.Add([]byte{0, 0, 2, 0, 2, 0, 0, 0})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, ops []byte) {
		const capacity = 4
		c := New[byte, int](capacity)
		m := &model{capacity: capacity, vals: map[byte]int{}}

		for i := 0; i+1 < len(ops); i += 2 {
			op, k := ops[i]%3, ops[i+1]%8
			switch op {
			case 0:
				c.Set(k, i)
				m.set(k, i)
			case 1:
				v, ok := c.Get(k)
				mv, mok := m.get(k)
				if ok != mok || v != mv {
					t.Fatalf("op %d Get(%d) = %d,%v; model %d,%v", i, k, v, ok, mv, mok)
				}
			case 2:
				if got, want := c.Remove(k), m.remove(k); got != want {
					t.Fatalf("op %d Remove(%d) = %v; model %v", i, k, got, want)
				}
			}
		}

		checkInvariants(t, c)
		if got := c.Keys(); !slices.Equal(got, m.order) {
			t.Fatalf("Keys=%v model=%v", got, m.order)
		}
	})
}
