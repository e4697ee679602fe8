package counter

import "sync/atomic"

// Cell — общее значение счётчика в памяти.
//
// Пишет только CounterLoop (и Runner между циклами), остальные только читают.
type Cell struct {
	v atomic.Int64
}

// Load возвращает текущее значение.
func (c *Cell) Load() int64 {
	return c.v.Load()
}

// Store публикует новое значение.
func (c *Cell) Store(n int64) {
	c.v.Store(n)
}
