package tools

import "sync"

// Loader lazily builds a process-wide resource on first use and hands the
// cached value to every later caller. A failed load is cached too.
type Loader[T any] struct {
	once sync.Once
	load func() (T, error)
	val  T
	err  error
}

func NewLoader[T any](load func() (T, error)) *Loader[T] {
	return &Loader[T]{load: load}
}

func (l *Loader[T]) Get() (T, error) {
	l.once.Do(func() {
		l.val, l.err = l.load()
	})
	return l.val, l.err
}

// MustGet is for resources whose construction cannot fail at runtime, such
// as embedded catalogs.
func (l *Loader[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}
