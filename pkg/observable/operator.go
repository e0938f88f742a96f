package observable

import "sync"

// Operators build derived observables: new observables whose values are pure
// functions of one or more sources. Each operator seeds the derived
// observable with the current transformed value of its source(s), then wires
// internal subscriptions that forward every later emission. The derived
// observable owns those registrations and releases them in Close.
//
// Operators are free functions because Go methods cannot introduce new type
// parameters.

// Map returns an observable carrying f(v) for every value v of src.
func Map[T, U any](src *Observable[T], f func(T) U) *Observable[U] {
	dst := New(f(src.Value()))
	id := src.observe(func(v T) {
		dst.Set(f(v))
	})
	dst.retain(func() { src.Unsubscribe(id) })
	return dst
}

// Filter returns an observable forwarding only the values of src for which
// pred holds. The seed is the source's current value regardless of pred.
func Filter[T any](src *Observable[T], pred func(T) bool) *Observable[T] {
	dst := New(src.Value())
	id := src.observe(func(v T) {
		if pred(v) {
			dst.Set(v)
		}
	})
	dst.retain(func() { src.Unsubscribe(id) })
	return dst
}

// CompactMap returns an observable carrying the pointed-to values of src,
// forwarding only non-nil emissions.
//
// The source's current value must be non-nil: there is otherwise no value to
// seed the derived observable, and CompactMap panics. This is a documented
// precondition, not a recoverable error.
func CompactMap[T any](src *Observable[*T]) *Observable[T] {
	initial := src.Value()
	if initial == nil {
		panic("observable: CompactMap source's current value is nil")
	}
	dst := New(*initial)
	id := src.observe(func(v *T) {
		if v != nil {
			dst.Set(*v)
		}
	})
	dst.retain(func() { src.Unsubscribe(id) })
	return dst
}

// Skip returns an observable that drops the first n post-seed emissions of
// src and forwards the rest.
func Skip[T any](src *Observable[T], n int) *Observable[T] {
	dst := New(src.Value())
	var (
		mu      sync.Mutex
		skipped int
	)
	id := src.observe(func(v T) {
		mu.Lock()
		if skipped < n {
			skipped++
			mu.Unlock()
			return
		}
		mu.Unlock()
		dst.Set(v)
	})
	dst.retain(func() { src.Unsubscribe(id) })
	return dst
}

// DistinctUntilChanged returns an observable forwarding a value only when it
// differs from the previously forwarded one.
func DistinctUntilChanged[T comparable](src *Observable[T]) *Observable[T] {
	return DistinctUntilChangedFunc(src, func(a, b T) bool { return a == b })
}

// DistinctUntilChangedFunc is DistinctUntilChanged with an explicit equality
// function.
func DistinctUntilChangedFunc[T any](src *Observable[T], equal func(a, b T) bool) *Observable[T] {
	prev := src.Value()
	dst := New(prev)
	var mu sync.Mutex
	id := src.observe(func(v T) {
		mu.Lock()
		if equal(prev, v) {
			mu.Unlock()
			return
		}
		prev = v
		mu.Unlock()
		dst.Set(v)
	})
	dst.retain(func() { src.Unsubscribe(id) })
	return dst
}

// Merge returns an observable forwarding the emissions of both sources in
// arrival order. The seed is a's current value. Emissions from one source
// stay in that source's order; no ordering holds across sources.
func Merge[T any](a, b *Observable[T]) *Observable[T] {
	dst := New(a.Value())
	forward := func(v T) { dst.Set(v) }
	idA := a.observe(forward)
	idB := b.observe(forward)
	dst.retain(func() {
		a.Unsubscribe(idA)
		b.Unsubscribe(idB)
	})
	return dst
}

// Pair is a zipped value from two sources.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Zip returns an observable pairing the sources' emissions. Values are
// buffered per source in arrival order; whenever both buffers are non-empty
// the oldest value of each is popped and forwarded as a Pair. Per-source
// order is preserved, cross-source timing is not. The seed pairs the
// sources' current values.
func Zip[A, B any](a *Observable[A], b *Observable[B]) *Observable[Pair[A, B]] {
	dst := New(Pair[A, B]{First: a.Value(), Second: b.Value()})

	var (
		mu   sync.Mutex
		bufA []A
		bufB []B
	)
	emit := func() (Pair[A, B], bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(bufA) == 0 || len(bufB) == 0 {
			return Pair[A, B]{}, false
		}
		p := Pair[A, B]{First: bufA[0], Second: bufB[0]}
		bufA = bufA[1:]
		bufB = bufB[1:]
		return p, true
	}

	idA := a.observe(func(v A) {
		mu.Lock()
		bufA = append(bufA, v)
		mu.Unlock()
		if p, ok := emit(); ok {
			dst.Set(p)
		}
	})
	idB := b.observe(func(v B) {
		mu.Lock()
		bufB = append(bufB, v)
		mu.Unlock()
		if p, ok := emit(); ok {
			dst.Set(p)
		}
	})
	dst.retain(func() {
		a.Unsubscribe(idA)
		b.Unsubscribe(idB)
	})
	return dst
}

// FlatMap returns an observable following the inner observable produced by f
// for the source's latest value. On every source emission the previous inner
// registration is explicitly released, a new inner observable is computed,
// the derived observable is re-seeded from it, and its emissions are
// forwarded until the next switch.
func FlatMap[T, U any](src *Observable[T], f func(T) *Observable[U]) *Observable[U] {
	inner := f(src.Value())
	dst := New(inner.Value())

	var mu sync.Mutex
	innerID := inner.observe(func(v U) { dst.Set(v) })

	srcID := src.observe(func(v T) {
		next := f(v)

		mu.Lock()
		inner.Unsubscribe(innerID)
		inner = next
		innerID = next.observe(func(u U) { dst.Set(u) })
		mu.Unlock()

		dst.Set(next.Value())
	})

	dst.retain(func() {
		src.Unsubscribe(srcID)
		mu.Lock()
		inner.Unsubscribe(innerID)
		mu.Unlock()
	})
	return dst
}
