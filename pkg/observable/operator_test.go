package observable_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-state/pulse-go/pkg/observable"
)

func TestMap(t *testing.T) {
	src := observable.New(2)
	dst := observable.Map(src, func(v int) string { return strconv.Itoa(v * 10) })

	assert.Equal(t, "20", dst.Value(), "seed should be the transformed current value")

	c := newCollector[string]()
	dst.Subscribe(c.callback)
	require.Equal(t, "20", c.next(t))

	src.Set(3)
	assert.Equal(t, "30", c.next(t))
}

func TestFilter(t *testing.T) {
	src := observable.New(4)
	dst := observable.Filter(src, func(v int) bool { return v%2 == 0 })

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 4, c.next(t))

	src.Set(5) // odd, filtered out
	src.Set(6)
	assert.Equal(t, 6, c.next(t))
	c.expectNone(t, 100*time.Millisecond)
}

func TestCompactMap(t *testing.T) {
	seed := 1
	src := observable.New(&seed)
	dst := observable.CompactMap(src)

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 1, c.next(t))

	src.Set(nil) // absent, not forwarded
	two := 2
	src.Set(&two)
	assert.Equal(t, 2, c.next(t))
	c.expectNone(t, 100*time.Millisecond)
}

func TestCompactMapNilSeedPanics(t *testing.T) {
	src := observable.New[*int](nil)
	assert.Panics(t, func() { observable.CompactMap(src) })
}

func TestSkip(t *testing.T) {
	src := observable.New(0)
	dst := observable.Skip(src, 2)

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 0, c.next(t))

	src.Set(1) // skipped
	src.Set(2) // skipped
	src.Set(3)
	assert.Equal(t, 3, c.next(t))

	src.Set(4)
	assert.Equal(t, 4, c.next(t))
}

func TestDistinctUntilChanged(t *testing.T) {
	src := observable.New(1)
	dst := observable.DistinctUntilChanged(src)

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 1, c.next(t), "seed")

	for _, v := range []int{1, 1, 2, 2, 1} {
		src.Set(v)
	}

	assert.Equal(t, 2, c.next(t))
	assert.Equal(t, 1, c.next(t))
	c.expectNone(t, 150*time.Millisecond)
}

func TestDistinctUntilChangedFunc(t *testing.T) {
	src := observable.New("a")
	// Compare lengths only.
	dst := observable.DistinctUntilChangedFunc(src, func(a, b string) bool {
		return len(a) == len(b)
	})

	c := newCollector[string]()
	dst.Subscribe(c.callback)
	require.Equal(t, "a", c.next(t))

	src.Set("b") // same length, suppressed
	src.Set("bb")
	assert.Equal(t, "bb", c.next(t))
}

func TestMerge(t *testing.T) {
	a := observable.New(1)
	b := observable.New(2)
	dst := observable.Merge(a, b)

	assert.Equal(t, 1, dst.Value(), "seed is a's current value")

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 1, c.next(t))

	a.Set(10)
	assert.Equal(t, 10, c.next(t))
	b.Set(20)
	assert.Equal(t, 20, c.next(t))
}

func TestZip(t *testing.T) {
	a := observable.New(1)
	b := observable.New("x")
	dst := observable.Zip(a, b)

	assert.Equal(t, observable.Pair[int, string]{First: 1, Second: "x"}, dst.Value())

	c := newCollector[observable.Pair[int, string]]()
	dst.Subscribe(c.callback)
	c.next(t) // seed

	// One side alone buffers without emitting.
	a.Set(2)
	c.expectNone(t, 100*time.Millisecond)

	b.Set("y")
	assert.Equal(t, observable.Pair[int, string]{First: 2, Second: "y"}, c.next(t))

	// Buffered values pair FIFO per source.
	a.Set(3)
	a.Set(4)
	b.Set("z")
	assert.Equal(t, observable.Pair[int, string]{First: 3, Second: "z"}, c.next(t))
	b.Set("w")
	assert.Equal(t, observable.Pair[int, string]{First: 4, Second: "w"}, c.next(t))
}

func TestFlatMapFollowsInner(t *testing.T) {
	inner1 := observable.New(10)
	inner2 := observable.New(20)
	src := observable.New(1)

	dst := observable.FlatMap(src, func(v int) *observable.Observable[int] {
		if v == 1 {
			return inner1
		}
		return inner2
	})
	assert.Equal(t, 10, dst.Value())

	c := newCollector[int]()
	dst.Subscribe(c.callback)
	require.Equal(t, 10, c.next(t))

	inner1.Set(11)
	assert.Equal(t, 11, c.next(t))

	// Switching re-seeds from the new inner observable.
	src.Set(2)
	assert.Equal(t, 20, c.next(t))

	// The superseded inner registration is released: its emissions no
	// longer reach the derived observable.
	inner1.Set(12)
	c.expectNone(t, 150*time.Millisecond)
	assert.Equal(t, 0, inner1.SubscriberCount())

	inner2.Set(21)
	assert.Equal(t, 21, c.next(t))
}

func TestDerivedCloseReleasesUpstream(t *testing.T) {
	src := observable.New(1)
	dst := observable.Map(src, func(v int) int { return v * 2 })
	require.Equal(t, 1, src.SubscriberCount())

	dst.Close()
	assert.Equal(t, 0, src.SubscriberCount(), "Close must release the internal source registration")

	// Upstream writes keep working and no longer touch the derived observable.
	src.Set(5)
	assert.Equal(t, 2, dst.Value())
}

func TestZipCloseReleasesBothSources(t *testing.T) {
	a := observable.New(1)
	b := observable.New(2)
	dst := observable.Zip(a, b)
	require.Equal(t, 1, a.SubscriberCount())
	require.Equal(t, 1, b.SubscriberCount())

	dst.Close()
	assert.Equal(t, 0, a.SubscriberCount())
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestOperatorChain(t *testing.T) {
	src := observable.New(1)
	chained := observable.DistinctUntilChanged(
		observable.Map(src, func(v int) int { return v / 10 }),
	)

	c := newCollector[int]()
	chained.Subscribe(c.callback)
	require.Equal(t, 0, c.next(t), "seed 1/10")

	src.Set(5)  // maps to 0, suppressed by distinct
	src.Set(25) // maps to 2
	assert.Equal(t, 2, c.next(t))
	src.Set(29) // maps to 2, suppressed
	src.Set(31) // maps to 3
	assert.Equal(t, 3, c.next(t))
}
