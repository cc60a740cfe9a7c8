package loader

import (
	"sync"
)

// lazy holds one parsed artifact. The parse runs at most once; its result,
// including a failure, is returned on every later call.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(parse func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = parse()
	})
	return l.val, l.err
}
