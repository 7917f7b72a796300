package index

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lgbarn/pgn-tree-go/internal/archive"
	"github.com/lgbarn/pgn-tree-go/internal/errors"
	"github.com/lgbarn/pgn-tree-go/internal/metrics"
	"github.com/lgbarn/pgn-tree-go/internal/parser"
)

// Indexer scans PGN files into a Store.
type Indexer struct {
	store   *Store
	logger  *zap.Logger
	metrics *metrics.Collector
	force   bool
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// WithMetrics records indexing in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(ix *Indexer) {
		ix.metrics = c
	}
}

// WithForce rescans files even when their size and modification time are
// unchanged since the last scan.
func WithForce(force bool) Option {
	return func(ix *Indexer) {
		ix.force = force
	}
}

// NewIndexer returns an indexer writing to store.
func NewIndexer(store *Store, opts ...Option) *Indexer {
	ix := &Indexer{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// ScanEntries reads the offset and headers of every game in r. It also
// returns the number of bytes read.
func ScanEntries(r io.Reader) ([]Entry, int64, error) {
	var entries []Entry
	s := parser.ScanHeaders(r)
	for s.Next() {
		entries = append(entries, Entry{Offset: s.Offset(), Headers: s.Headers().Map()})
	}
	return entries, s.BytesRead(), s.Err()
}

// Key returns the name path is stored under.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// IndexFile scans path and stores the result. An unchanged file that is
// already indexed is left alone.
func (ix *Indexer) IndexFile(ctx context.Context, path string) (FileInfo, error) {
	key := Key(path)
	f, err := archive.Open(key)
	if err != nil {
		return FileInfo{}, err
	}
	defer f.Close()

	if !ix.force {
		if info, err := ix.store.Info(key); err == nil && info.Current(f.Size, f.ModTime) {
			ix.logger.Debug("index is current", zap.String("file", key))
			return info, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return FileInfo{}, err
	}

	start := time.Now()
	entries, n, err := ScanEntries(f)
	if err != nil {
		return FileInfo{}, errors.Wrapf(err, "scan %s", key)
	}
	info := FileInfo{
		Path:        key,
		Size:        f.Size,
		ModTime:     f.ModTime,
		Compression: f.Compression.String(),
		Games:       len(entries),
		Bytes:       n,
		IndexedAt:   time.Now().UTC(),
	}
	if err := ix.store.Put(info, entries); err != nil {
		return FileInfo{}, errors.Wrapf(err, "store %s", key)
	}

	elapsed := time.Since(start)
	ix.metrics.FileIndexed(key, len(entries), n, elapsed)
	ix.logger.Info("indexed file",
		zap.String("file", key),
		zap.Int("games", len(entries)),
		zap.String("scanned", bytesize.New(float64(n)).String()),
		zap.String("compression", info.Compression),
		zap.Duration("elapsed", elapsed),
	)
	return info, nil
}

// IndexFiles indexes paths with at most jobs files in flight. The first
// failure cancels the files not yet started and is returned.
func (ix *Indexer) IndexFiles(ctx context.Context, paths []string, jobs int) ([]FileInfo, error) {
	infos := make([]FileInfo, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			info, err := ix.IndexFile(gctx, path)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Watch indexes paths again each time they change until ctx is done.
// Events for a file are coalesced until it has been quiet for debounce.
// Failures to reindex are logged, not returned.
func (ix *Indexer) Watch(ctx context.Context, paths []string, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		key := Key(p)
		watched[key] = true
		// Watching the directory catches editors that replace the file.
		if dir := filepath.Dir(key); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return errors.Wrapf(err, "watch %s", dir)
			}
			dirs[dir] = true
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			for path := range pending {
				if _, err := ix.IndexFile(ctx, path); err != nil {
					ix.logger.Error("reindex failed", zap.String("file", path), zap.Error(err))
				}
			}
			clear(pending)
		}
	}
}
