package abstract

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
	"github.com/siphondata/siphon/constants"
	"github.com/siphondata/siphon/destination"
	"github.com/siphondata/siphon/types"
	"github.com/siphondata/siphon/utils"
	"github.com/siphondata/siphon/utils/logger"
	"github.com/siphondata/siphon/utils/typeutils"
)

// Sync runs the selected streams sequentially against the destination
// pool. A failed stream does not stop the remaining ones; a credential
// rejection aborts the whole run since every later request would fail
// the same way.
func (a *AbstractDriver) Sync(ctx context.Context, pool *destination.WriterPool, streams ...types.StreamInterface) error {
	var syncErr error

	for _, stream := range streams {
		if err := a.syncStream(ctx, pool, stream); err != nil {
			if errors.Is(err, constants.ErrAuthFailed) {
				return fmt.Errorf("aborting sync: %w", err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			logger.Errorf("sync failed for stream[%s]: %s", stream.ID(), err)
			syncErr = multierror.Append(syncErr, fmt.Errorf("stream[%s]: %w", stream.ID(), err))
			continue
		}
	}

	// final checkpoint covers streams that produced no pages
	a.state.LogState()
	return syncErr
}

func (a *AbstractDriver) syncStream(ctx context.Context, pool *destination.WriterPool, stream types.StreamInterface) (err error) {
	cursorField := ""
	var bookmark any
	if stream.GetSyncMode() == types.INCREMENTAL {
		cursorField = stream.Cursor()
		if cursorField == "" {
			return fmt.Errorf("stream[%s] selected incremental sync without a cursor field", stream.ID())
		}
		bookmark = a.state.GetCursor(stream.Self(), cursorField)
	}

	baseQuery, err := a.driver.BaseQuery(stream, bookmark)
	if err != nil {
		return fmt.Errorf("failed to build query: %s", err)
	}

	paginator, err := a.driver.Paginator(stream, bookmark)
	if err != nil {
		return fmt.Errorf("failed to build paginator: %s", err)
	}

	thread := pool.NewThread(ctx, stream, destination.WithIdentifier(stream.ID()))
	defer func() {
		if closeErr := thread.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	logger.Infof("starting %s sync for stream[%s]", stream.GetSyncMode(), stream.ID())

	var synced, skipped, pages int64
	primaryKeys := stream.GetStream().SourceDefinedPrimaryKey.Array()

	for {
		// cancellation lands on page boundaries so the last logged
		// checkpoint stays consistent with what was pushed
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		query := cloneQuery(baseQuery)
		if !paginator.Prepare(query) {
			break
		}

		page, err := a.driver.ReadPage(ctx, stream, query)
		if err != nil {
			return fmt.Errorf("failed to read page %d: %w", pages+1, err)
		}

		var pageCursor any
		for _, raw := range page.Records {
			record, err := typeutils.MapRecord(stream, raw)
			if err != nil {
				// malformed records are logged and skipped, they
				// must not poison the page
				logger.Warnf("skipping record of stream[%s]: %s", stream.ID(), err)
				skipped++
				continue
			}

			recordID := recordIdentity(record, primaryKeys)
			if err := thread.Push(types.CreateRawRecord(recordID, stream, record)); err != nil {
				return fmt.Errorf("failed to push record: %s", err)
			}
			synced++

			if cursorField != "" {
				value := typeutils.FormatCursorValue(record[cursorField])
				if value != nil && (pageCursor == nil || utils.CompareInterfaceValue(value, pageCursor) == 1) {
					pageCursor = value
				}
			}
		}

		paginator.Observe(page)
		pages++

		// the page must reach the destination before its cursor is
		// committed and the checkpoint is logged; a crash costs at
		// most one page of re-extraction, never a skipped record
		if err := thread.Flush(); err != nil {
			return fmt.Errorf("failed to flush page %d: %s", pages, err)
		}
		if cursorField != "" && pageCursor != nil {
			a.state.ObserveCursor(stream.Self(), cursorField, pageCursor)
		}
		a.state.LogState()
	}

	logger.Infof("stream[%s] synced %d records over %d pages (%d skipped)", stream.ID(), synced, pages, skipped)
	return nil
}

func recordIdentity(record types.Record, primaryKeys []string) string {
	if len(primaryKeys) == 0 {
		return utils.ULID()
	}

	return utils.GetKeysHash(record, primaryKeys...)
}

func cloneQuery(base url.Values) url.Values {
	out := make(url.Values, len(base))
	for key, values := range base {
		out[key] = append([]string(nil), values...)
	}

	return out
}
