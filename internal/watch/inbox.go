package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a workbook must stay unchanged before it is
// picked up.
const DefaultSettle = 750 * time.Millisecond

// IngestFunc receives the bytes of a workbook that settled in the inbox.
type IngestFunc func(ctx context.Context, data []byte, filename string) error

// Inbox watches a directory and hands every *.xlsx written into it to an
// IngestFunc. Editors and copy tools write in bursts, so each file is handled
// once it has been quiet for the settle interval.
type Inbox struct {
	dir    string
	ingest IngestFunc
	settle time.Duration
	logger *zap.Logger

	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*pendingFile

	wg sync.WaitGroup
}

type pendingFile struct {
	timer *time.Timer
}

// NewInbox starts watching dir, creating it if needed.
func NewInbox(dir string, settle time.Duration, ingest IngestFunc, logger *zap.Logger) (*Inbox, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Inbox{
		dir:     dir,
		ingest:  ingest,
		settle:  settle,
		logger:  logger,
		watcher: watcher,
		pending: make(map[string]*pendingFile),
	}, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (in *Inbox) Run(ctx context.Context) {
	defer in.wg.Wait()
	defer in.stopPending()

	in.logger.Info("watching inbox", zap.String("dir", in.dir))

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isWorkbook(event.Name) {
				continue
			}
			in.schedule(ctx, event.Name)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.logger.Warn("inbox watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (in *Inbox) Close() error {
	return in.watcher.Close()
}

// schedule (re)arms the settle timer for path.
func (in *Inbox) schedule(ctx context.Context, path string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if p, ok := in.pending[path]; ok && p.timer.Stop() {
		p.timer.Reset(in.settle)
		return
	}

	p := &pendingFile{}
	in.wg.Add(1)
	p.timer = time.AfterFunc(in.settle, func() {
		defer in.wg.Done()
		in.mu.Lock()
		if in.pending[path] == p {
			delete(in.pending, path)
		}
		in.mu.Unlock()
		in.process(ctx, path)
	})
	in.pending[path] = p
}

func (in *Inbox) stopPending() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for path, p := range in.pending {
		if p.timer.Stop() {
			in.wg.Done()
		}
		delete(in.pending, path)
	}
}

func (in *Inbox) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		in.logger.Warn("inbox read failed", zap.String("path", path), zap.Error(err))
		return
	}

	name := filepath.Base(path)
	if err := in.ingest(ctx, data, name); err != nil {
		in.logger.Warn("inbox workbook rejected", zap.String("file", name), zap.Error(err))
		return
	}
	in.logger.Info("inbox workbook published", zap.String("file", name), zap.Int("bytes", len(data)))
}

// isWorkbook matches *.xlsx, skipping the lock files spreadsheet editors
// leave next to open workbooks.
func isWorkbook(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}
