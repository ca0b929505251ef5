package physics

import (
	"sync"

	"github.com/lixenwraith/nbody/core"
	"github.com/lixenwraith/nbody/vmath"
)

// Accumulator runs the all-pairs kernel across worker goroutines
// Each worker owns a private partial-sum buffer; buffers are reduced after a barrier
// in fixed worker order, so results are deterministic for a given worker count
type Accumulator struct {
	workers   int
	threshold int
	partial   [][]vmath.Vec2
	bounds    []int
}

// NewAccumulator creates an accumulator; workers <= 1 selects the serial path
// Body counts below threshold also use the serial path
func NewAccumulator(workers, threshold int) *Accumulator {
	if workers < 1 {
		workers = 1
	}
	return &Accumulator{
		workers:   workers,
		threshold: threshold,
		partial:   make([][]vmath.Vec2, workers),
		bounds:    make([]int, workers+1),
	}
}

// Workers returns the configured worker count
func (a *Accumulator) Workers() int {
	return a.workers
}

// Accumulate computes accelerations into acc, identical in contract to the package-level Accumulate
func (a *Accumulator) Accumulate(bodies []core.Body, g Gravity, acc []vmath.Vec2) {
	n := len(bodies)
	if a.workers == 1 || n < a.threshold || n < 2*a.workers {
		Accumulate(bodies, g, acc)
		return
	}

	balanceRows(n, a.bounds)

	var wg sync.WaitGroup
	for w := 0; w < a.workers; w++ {
		if cap(a.partial[w]) < n {
			a.partial[w] = make([]vmath.Vec2, n)
		}
		buf := a.partial[w][:n]
		a.partial[w] = buf
		lo, hi := a.bounds[w], a.bounds[w+1]

		wg.Add(1)
		core.Go(func() {
			defer wg.Done()
			for i := range buf {
				buf[i] = vmath.Vec2{}
			}
			accumulateRows(bodies, g, buf, lo, hi)
		})
	}
	wg.Wait()

	// Reduction partitioned by body range: worker w owns acc[lo:hi]
	chunk := (n + a.workers - 1) / a.workers
	acc = acc[:n]
	for w := 0; w < a.workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		wg.Add(1)
		core.Go(func() {
			defer wg.Done()
			for k := lo; k < hi; k++ {
				var s vmath.Vec2
				for p := range a.partial {
					s.X += a.partial[p][k].X
					s.Y += a.partial[p][k].Y
				}
				acc[k] = s
			}
		})
	}
	wg.Wait()
}

// balanceRows splits rows [0, n) into len(bounds)-1 ranges holding roughly equal pair counts
// Row i owns n-1-i pairs, so early rows are heavier
func balanceRows(n int, bounds []int) {
	parts := len(bounds) - 1
	total := n * (n - 1) / 2
	bounds[0] = 0
	row, done := 0, 0
	for p := 1; p < parts; p++ {
		target := total * p / parts
		for row < n && done < target {
			done += n - 1 - row
			row++
		}
		bounds[p] = row
	}
	bounds[parts] = n
}
