package destination

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"golang.org/x/sync/errgroup"
)

type NewFunc func() Writer

var RegisteredWriters = map[types.DestinationType]NewFunc{}

// WriterPool owns the destination side of a sync: it validates the
// destination once, then hands out per-stream threads that buffer and
// flush record batches.
type WriterPool struct {
	batchSize     int
	recordCount   atomic.Int64
	readCount     atomic.Int64
	ThreadCounter atomic.Int64
	config        any
	init          NewFunc
	tmu           sync.Mutex
}

// NewWriterPool builds the pool for the configured destination and runs
// the destination check up front.
func NewWriterPool(ctx context.Context, config *types.WriterConfig, dropStreams []string) (*WriterPool, error) {
	newfunc, found := RegisteredWriters[config.Type]
	if !found {
		return nil, fmt.Errorf("invalid destination type has been passed [%s]", config.Type)
	}

	adapter := newfunc()
	if err := utils.Unmarshal(config.WriterConfig, adapter.GetConfigRef()); err != nil {
		return nil, err
	}
	if err := adapter.GetConfigRef().Validate(); err != nil {
		return nil, fmt.Errorf("invalid destination config: %s", err)
	}

	if err := adapter.Check(ctx); err != nil {
		return nil, fmt.Errorf("failed to test destination: %s", err)
	}

	if len(dropStreams) > 0 {
		if err := adapter.DropStreams(ctx, dropStreams); err != nil {
			return nil, fmt.Errorf("failed to clear destination: %s", err)
		}
	}

	return &WriterPool{
		batchSize: config.BatchSize,
		config:    config.WriterConfig,
		init:      newfunc,
	}, nil
}

// WriterThread buffers records of one stream and flushes them in batches
type WriterThread struct {
	pool       *WriterPool
	stream     types.StreamInterface
	options    *Options
	recordChan chan types.RawRecord
	errGroup   *errgroup.Group
	threadCtx  context.Context
}

func (w *WriterPool) NewThread(ctx context.Context, stream types.StreamInterface, options ...ThreadOptions) *WriterThread {
	opts := &Options{Number: w.ThreadCounter.Add(1)}
	for _, one := range options {
		one(opts)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	return &WriterThread{
		pool:       w,
		stream:     stream,
		options:    opts,
		recordChan: make(chan types.RawRecord, w.batchSize),
		errGroup:   group,
		threadCtx:  groupCtx,
	}
}

func (t *WriterThread) Push(record types.RawRecord) error {
	select {
	case t.recordChan <- record:
		t.pool.readCount.Add(1)
		if len(t.recordChan) >= t.pool.batchSize {
			t.errGroup.Go(t.flush)
		}
		return nil
	case <-t.threadCtx.Done():
		return t.threadCtx.Err()
	}
}

// Flush drains the buffered records and blocks until every in-flight
// batch has reached the destination. Callers checkpoint only after it
// returns, so emitted state never runs ahead of written records.
func (t *WriterThread) Flush() error {
	if err := t.flush(); err != nil {
		return err
	}
	return t.errGroup.Wait()
}

func (t *WriterThread) Close() error {
	err := t.Flush()
	close(t.recordChan)
	return err
}

func (t *WriterThread) flush() error {
	fetchSize := len(t.recordChan)
	var batch []types.RawRecord
	for len(batch) < fetchSize {
		record, ok := <-t.recordChan
		if !ok {
			break
		}
		batch = append(batch, record)
	}
	if len(batch) == 0 {
		return nil
	}

	var writer Writer
	err := func() error {
		t.pool.tmu.Lock() // config is shared across threads
		defer t.pool.tmu.Unlock()
		writer = t.pool.init()
		if err := utils.Unmarshal(t.pool.config, writer.GetConfigRef()); err != nil {
			return err
		}
		return writer.Setup(t.stream, t.options)
	}()
	if err != nil {
		return fmt.Errorf("failed to init writer thread[%d]: %s", t.options.Number, err)
	}

	if err := writer.Write(t.threadCtx, batch); err != nil {
		_ = writer.Close(t.threadCtx)
		return fmt.Errorf("failed to write batch: %s", err)
	}
	if err := writer.Close(t.threadCtx); err != nil {
		return fmt.Errorf("failed to close writer thread[%d]: %s", t.options.Number, err)
	}

	t.pool.recordCount.Add(int64(len(batch)))
	return nil
}

// SyncedRecords returns the count of records flushed to the destination
func (w *WriterPool) SyncedRecords() int64 {
	return w.recordCount.Load()
}

func (w *WriterPool) ReadRecords() int64 {
	return w.readCount.Load()
}
