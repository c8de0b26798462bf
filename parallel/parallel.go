// Package parallel splits a .BIN file into message-aligned chunks, decodes
// each chunk independently with its own worker, and merges the results
// while preserving chronological order.
package parallel

import (
	"context"
	"fmt"
	"os"
	"sync"

	"mavbin/cache"
	"mavbin/config"
	"mavbin/decode"
	"mavbin/errs"
	"mavbin/format"
	"mavbin/internal/view"
)

// prescanSentinel is passed as Scanner's filter during the prescan pass so
// that no real descriptor (whose name is always printable ASCII) is ever
// decoded — only FMT records are registered, which happens as a side
// effect of scanning regardless of filter.
const prescanSentinel = "\x00"

// ProcessAll decodes the whole file at path by splitting it into
// message-aligned chunks across workers, per mode's worker-count default
// (or workers, if > 0), and merging the per-chunk results in chunk order.
//
// A cancelled ctx stops dispatch of new chunks; in-flight workers finish
// their current record and exit; ProcessAll then returns
// errs.ErrCancellationRequested with no partial results. If any worker
// fails fatally, the first such error is returned and all results are
// discarded.
func ProcessAll(ctx context.Context, path string, mode Mode, workers int, filter string, opts ...Option) ([]decode.Message, error) {
	cc, err := newCoordinatorConfig(opts...)
	if err != nil {
		return nil, err
	}

	v, err := view.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parallel: %w: %w", errs.ErrIoError, err)
	}
	defer v.Close()

	cfg := cc.cfg

	baseTable, err := prescan(v, path, cfg, cc)
	if err != nil {
		return nil, err
	}

	n := resolveWorkerCount(mode, workers)
	chunks, err := splitAligned(v, n, baseTable, cfg)
	if err != nil {
		return nil, err
	}

	results := make([][]decode.Message, len(chunks))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		pErr error
	)
	recordError := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if pErr == nil {
			pErr = err
		}
		cancel()
	}

	work := make(chan chunk)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			w, err := view.Open(path)
			if err != nil {
				recordError(fmt.Errorf("parallel: worker %d: %w: %w", workerID, errs.ErrIoError, err))
				return
			}
			defer w.Close()

			for c := range work {
				select {
				case <-runCtx.Done():
					return
				default:
				}

				cc.logger.Debugf("parallel: worker %d decoding chunk %d [%d, %d)", workerID, c.index, c.lo, c.hi)

				table := baseTable.Clone()
				s, err := decode.NewScanner(w, c.lo, c.hi, table, cfg)
				if err != nil {
					recordError(fmt.Errorf("parallel: chunk %d: %w", c.index, err))
					return
				}

				var msgs []decode.Message
				for m := range s.Messages(filter) {
					msgs = append(msgs, m)

					select {
					case <-runCtx.Done():
						results[c.index] = msgs
						return
					default:
					}
				}

				results[c.index] = msgs
			}
		}(i)
	}

dispatch:
	for _, c := range chunks {
		select {
		case <-runCtx.Done():
			break dispatch
		case work <- c:
		}
	}
	close(work)

	wg.Wait()

	if pErr != nil {
		return nil, pErr
	}
	if ctx.Err() != nil {
		return nil, errs.ErrCancellationRequested
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]decode.Message, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}

	return merged, nil
}

// prescan builds the format table referenced by every chunk: a single
// sequential pass registering every FMT record up front (strategy 1 from
// the design notes). When the caller opted into the cache, a matching
// cache entry short-circuits this pass entirely.
func prescan(v *view.View, path string, cfg *config.Config, cc *coordinatorConfig) (*format.Table, error) {
	var (
		cachePath string
		size      int64
		modNano   int64
	)

	if cc.cacheEnabled {
		info, err := os.Stat(path)
		if err == nil {
			size = info.Size()
			modNano = info.ModTime().UnixNano()
			cachePath = cc.cacheDir
			if cachePath == "" {
				cachePath = path + ".fmtcache"
			} else {
				cachePath = cachePath + "/" + info.Name() + ".fmtcache"
			}

			store, err := cache.NewStore(cc.cacheCodec)
			if err == nil {
				if table, ok := store.Load(cachePath, size, modNano, path, cfg); ok {
					cc.logger.Debugf("parallel: prescan cache hit for %s", path)
					return table, nil
				}
			}
		}
	}

	table, err := format.Bootstrap(cfg)
	if err != nil {
		return nil, err
	}

	s, err := decode.NewScanner(v, 0, v.Size(), table, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := s.DecodeAll(prescanSentinel); err != nil {
		return nil, err
	}

	if cc.cacheEnabled && cachePath != "" {
		store, err := cache.NewStore(cc.cacheCodec)
		if err == nil {
			cc.logger.Debugf("parallel: saving prescan cache for %s", path)
			_ = store.Save(cachePath, table, size, modNano, path)
		}
	}

	return table, nil
}
