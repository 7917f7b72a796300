// Package worker parses games in parallel. Games are addressed by the byte
// offsets an OffsetScanner reports, so workers can read them independently
// from an io.ReaderAt.
package worker

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/game"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

// WorkItem is one game to parse.
type WorkItem struct {
	Index  int   // position in scan order
	Offset int64 // first byte of the game's headers
}

// ProcessResult represents the result of processing a work item.
type ProcessResult struct {
	Index   int
	Offset  int64
	Game    *game.Game
	Matched bool // false when a filter rejected the game
	Error   error
}

// ProcessFunc is the function signature for processing a work item.
type ProcessFunc func(item WorkItem) ProcessResult

// Pool manages a pool of workers for parallel game processing.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool running processFunc. It defaults to one worker
// and a buffer of ten items.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker processes items from the work channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue // drain without processing
		}
		p.resultChan <- p.processFunc(item)
	}
}

// Submit queues item, blocking while the buffer is full. It gives up when
// ctx is done or the pool has been stopped.
func (p *Pool) Submit(ctx context.Context, item WorkItem) error {
	if p.IsStopped() {
		return context.Canceled
	}
	select {
	case p.workChan <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop signals workers to skip the items still queued.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the work channel and waits for all workers to finish, then
// closes the result channel.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel for reading processed results.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// ParseAt parses the game whose headers start at offset in src.
func ParseAt(src io.ReaderAt, offset int64, opts ...parser.Option) (*game.Game, error) {
	r := io.NewSectionReader(src, offset, math.MaxInt64-offset)
	g, err := parser.NewParser(r, opts...).ReadGame()
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("offset %d: %w", offset, errors.ErrNoGame)
	}
	return g, nil
}

// Filter decides whether a parsed game is kept.
type Filter func(*game.Game) bool

// LoadAll parses the games at offsets with the given number of workers and
// returns one result per offset, in offset order. Matched reports whether
// keep accepted the game; a nil keep accepts every game. The first failure
// stops the remaining work and is returned as a GameError.
func LoadAll(ctx context.Context, src io.ReaderAt, offsets []int64, workers int, keep Filter, opts ...parser.Option) ([]ProcessResult, error) {
	pool := NewPool(func(item WorkItem) ProcessResult {
		g, err := ParseAt(src, item.Offset, opts...)
		res := ProcessResult{Index: item.Index, Offset: item.Offset, Game: g, Error: err}
		res.Matched = err == nil && (keep == nil || keep(g))
		return res
	}, WithWorkers(workers), WithBufferSize(2*workers))
	pool.Start()

	go func() {
		defer pool.Close()
		for i, off := range offsets {
			if err := pool.Submit(ctx, WorkItem{Index: i, Offset: off}); err != nil {
				return
			}
		}
	}()

	results := make([]ProcessResult, len(offsets))
	var firstErr error
	for res := range pool.Results() {
		results[res.Index] = res
		if res.Error != nil && firstErr == nil {
			firstErr = &errors.GameError{Err: res.Error, GameNum: res.Index + 1, Offset: res.Offset}
			pool.Stop()
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
