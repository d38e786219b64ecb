package model

import (
	"context"
	"io"
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-gol-matrix/rules"
	"github.com/sheikhrachel/go-gol-matrix/utils"
)

// SeedPattern is the glider stamped relative to the seed anchor on every reseed
var SeedPattern = []Point{
	{X: 21, Y: 21},
	{X: 22, Y: 22},
	{X: 22, Y: 23},
	{X: 21, Y: 23},
	{X: 20, Y: 23},
}

var (
	colorDead     = [3]uint8{0, 0, 0}
	colorTrailOne = [3]uint8{250, 0, 0}
	colorTrailTwo = [3]uint8{0, 250, 0}
)

// Engine advances a Game of Life board and maps it onto pixels
type Engine struct {
	config utils.Config
	logger *log.Logger
	stats  *utils.Stats

	current  *Grid
	next     *Grid
	previous *Grid

	anchor     Point
	tick       int
	generation int
	history    history
}

// NewEngine allocates the board buffers and seeds the current generation.
// A nil rng is created from config.Seed, or from the clock when the seed is 0.
func NewEngine(width, height int, config utils.Config, rng *rand.Rand) *Engine {
	if rng == nil {
		seed := uint64(config.Seed)
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, 0))
	}

	e := &Engine{
		config:   config,
		logger:   log.New(io.Discard, "", 0),
		stats:    utils.NewStats(),
		current:  NewGrid(width, height, config.Torus),
		next:     NewGrid(width, height, config.Torus),
		previous: NewGrid(width, height, config.Torus),
	}

	// By default the anchor is the last coordinate of the board, halved
	e.anchor = Point{X: (e.current.width - 1) / 2, Y: (e.current.height - 1) / 2}
	if config.SeedAnchor != nil {
		e.anchor = Point{X: config.SeedAnchor[0], Y: config.SeedAnchor[1]}
	}

	e.current.Randomize(rng, config.RandomDensity)
	e.previous.CopyFrom(e.current)
	return e
}

// SetLogger routes engine log output; nil discards it
func (e *Engine) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e.logger = logger
}

// Width returns the width of the board
func (e *Engine) Width() int { return e.current.GetWidth() }

// Height returns the height of the board
func (e *Engine) Height() int { return e.current.GetHeight() }

// Tick returns the reseed counter
func (e *Engine) Tick() int { return e.tick }

// Generation returns the number of completed Advance calls
func (e *Engine) Generation() int { return e.generation }

// Stats exposes the running statistics
func (e *Engine) Stats() *utils.Stats { return e.stats }

// Alive reports whether the cell at (x, y) is alive in the current generation
func (e *Engine) Alive(x, y int) bool { return e.current.Get(x, y) }

// Set overwrites one cell of the current generation
func (e *Engine) Set(x, y int, alive bool) { e.current.Set(x, y, alive) }

// Clear kills every cell of the current and previous generations
func (e *Engine) Clear() {
	e.current.Clear()
	e.previous.Clear()
}

// Population returns the number of living cells
func (e *Engine) Population() int { return e.current.CountLivingCells() }

// NeighborCount counts living neighbors of (x, y) in the current generation
func (e *Engine) NeighborCount(x, y int) int { return e.current.NeighborCount(x, y) }

// SeedCells returns the on-board positions the next reseed will set alive
func (e *Engine) SeedCells() []Point {
	cells := make([]Point, 0, len(SeedPattern))
	for _, p := range SeedPattern {
		x, y := e.current.Wrap(e.anchor.X+p.X, e.anchor.Y+p.Y)
		cells = append(cells, Point{X: x, Y: y})
	}
	return cells
}

// Advance computes the next generation and commits it
func (e *Engine) Advance() {
	e.next.CopyFrom(e.current)

	if e.config.UseParallel {
		e.updateParallel()
	} else {
		e.updateRows(0, e.current.height)
	}

	e.tick++
	if e.config.ReseedThreshold > 0 && e.tick == e.config.ReseedThreshold {
		e.tick = 0
		e.next.Stamp(e.anchor, SeedPattern)
		e.stats.Reseeds++
		e.logger.Printf("reseed at generation %d, anchor (%d,%d)", e.generation+1, e.anchor.X, e.anchor.Y)
	}

	e.previous, e.current, e.next = e.current, e.next, e.previous
	e.generation++
}

// updateRows applies the rule to rows [startRow, endRow), reading only current
func (e *Engine) updateRows(startRow, endRow int) {
	g := e.current
	for y := startRow; y < endRow; y++ {
		for x := 0; x < g.width; x++ {
			i := g.index(x, y)
			e.next.cells[i] = rules.ApplyConwayRules(g.NeighborCount(x, y), g.cells[i])
		}
	}
}

// updateParallel splits the board into row bands, one per CPU
func (e *Engine) updateParallel() {
	var (
		eg            errgroup.Group
		height        = e.current.height
		numWorkers    = runtime.NumCPU()
		rowsPerWorker = (height + numWorkers - 1) / numWorkers // Ceiling division
	)

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, height)
		)
		if startRow >= height {
			break
		}

		eg.Go(func() error {
			e.updateRows(startRow, endRow)
			return nil
		})
	}

	// Workers never fail; Wait only joins them
	_ = eg.Wait()
}

// RenderCell maps the cell at (x, y) to a color. It depends only on the
// current and previous generations, so repeated calls agree.
func (e *Engine) RenderCell(x, y int) (r, g, b uint8) {
	switch {
	case e.current.Get(x, y):
		c := e.config.AliveColor
		return c[0], c[1], c[2]
	case e.config.Flicker && e.previous.Get(x, y):
		return flickerRed(x, y, e.generation), 0, 0
	default:
		return colorDead[0], colorDead[1], colorDead[2]
	}
}

// flickerRed picks a dim red in [0,128) that varies per cell and generation
func flickerRed(x, y, generation int) uint8 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663 ^ uint32(generation)*83492791
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return uint8(h % 128)
}

// Render writes every cell to the sink and flushes it when supported.
// Trail pixels are painted in a second pass and only over dead cells.
func (e *Engine) Render(sink PixelSink) {
	for x := 0; x < e.current.width; x++ {
		for y := 0; y < e.current.height; y++ {
			r, g, b := e.RenderCell(x, y)
			setClipped(sink, x, y, [3]uint8{r, g, b})
		}
	}

	if e.config.Trail {
		for x := 0; x < e.current.width; x++ {
			for y := 0; y < e.current.height; y++ {
				if !e.current.Get(x, y) {
					continue
				}
				e.paintTrail(sink, x+1, y+1, colorTrailOne)
				e.paintTrail(sink, x+2, y+2, colorTrailTwo)
			}
		}
	}

	if f, ok := sink.(Flusher); ok {
		f.Show()
	}
}

func (e *Engine) paintTrail(sink PixelSink, x, y int, c [3]uint8) {
	if e.current.Get(x, y) {
		return
	}
	setClipped(sink, x, y, c)
}

func setClipped(sink PixelSink, x, y int, c [3]uint8) {
	if x < 0 || y < 0 || x >= sink.Width() || y >= sink.Height() {
		return
	}
	sink.SetPixel(x, y, c[0], c[1], c[2])
}

// Run loops Advance, Render and a fixed sleep until ctx is done or the
// configured generation limit is reached. Cancellation is observed between
// cycles, never in the middle of one.
func (e *Engine) Run(ctx context.Context, sink PixelSink) error {
	interval := e.config.Interval()
	e.logger.Printf("running %dx%d board, torus=%v, interval=%v, reseed every %d ticks",
		e.Width(), e.Height(), e.config.Torus, interval, e.config.ReseedThreshold)

	lastFrame := time.Now()
	for {
		if ctx.Err() != nil {
			return nil
		}

		e.Advance()
		e.Render(sink)
		e.observe(time.Since(lastFrame))
		lastFrame = time.Now()

		if e.config.MaxGenerations > 0 && e.generation >= e.config.MaxGenerations {
			e.logger.Printf("reached maximum generations limit (%d)", e.config.MaxGenerations)
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// observe updates stats and logs progress and stagnation after a frame
func (e *Engine) observe(frame time.Duration) {
	population := e.current.CountLivingCells()
	e.stats.Update(e.generation, population, frame)

	if e.history.push(e.current.GetGridHash()) {
		e.stats.StagnantFrames++
		if e.stats.StagnantFrames == e.config.StagnationThreshold {
			e.logger.Printf("board stagnant for %d generations at generation %d, waiting for reseed",
				e.stats.StagnantFrames, e.generation)
		}
	} else {
		e.stats.StagnantFrames = 0
	}

	if e.config.StatsEvery > 0 && e.generation%e.config.StatsEvery == 0 {
		e.logger.Printf("gen: %d | living: %d | avg pop: %.1f | %.1f gen/sec",
			e.generation, population, e.stats.AveragePopulation, e.stats.GenerationsPerSecond)
	}
}

// Stagnant reports whether the last frames repeated a recent board state
// for at least the configured number of generations
func (e *Engine) Stagnant() bool {
	return e.config.StagnationThreshold > 0 && e.stats.StagnantFrames >= e.config.StagnationThreshold
}
