package asset

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

var ErrCancelled = errors.New("asset load cancelled")

// ToLoad names one product of a batch.
type ToLoad struct {
	Path string
	Type Type
}

// ItemResult is delivered once per batch item.
type ItemResult struct {
	ToLoad
	Id      Id
	Err     error
	Pending int
}

func (r ItemResult) OK() bool { return r.Err == nil }

// BatchResult is delivered once per batch, after every item has reported.
type BatchResult struct {
	Loaded []ToLoad
	Failed []ToLoad
}

type batch struct {
	gen        uint64
	cancel     context.CancelFunc
	pending    map[string]ToLoad
	onItem     func(ItemResult)
	onComplete func(BatchResult)
	result     BatchResult
	done       bool
}

// BatchLoader loads a list of products concurrently and reports back on the
// thread that calls Poll. Only one batch is active at a time.
type BatchLoader struct {
	catalog     *Catalog
	loader      Loader
	concurrency int
	log         *slog.Logger

	wg     sync.WaitGroup
	mu     sync.Mutex
	queue  []ItemResult
	queued []uint64
	gen    uint64
	active *batch
}

func NewBatchLoader(catalog *Catalog, loader Loader, concurrency int, log *slog.Logger) *BatchLoader {
	return &BatchLoader{
		catalog:     catalog,
		loader:      loader,
		concurrency: max(1, concurrency),
		log:         log,
	}
}

func (b *BatchLoader) push(gen uint64, r ItemResult) {
	b.mu.Lock()
	b.queue = append(b.queue, r)
	b.queued = append(b.queued, gen)
	b.mu.Unlock()
}

// LoadAssetsAsync starts loading list, replacing any batch in flight. onItem
// (optional) runs for every item; onComplete runs exactly once when no item is
// pending, including when items failed. Both run inside Poll.
func (b *BatchLoader) LoadAssetsAsync(list []ToLoad, onItem func(ItemResult), onComplete func(BatchResult)) {
	b.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	b.gen++
	bt := &batch{
		gen:        b.gen,
		cancel:     cancel,
		pending:    make(map[string]ToLoad, len(list)),
		onItem:     onItem,
		onComplete: onComplete,
	}
	b.active = bt

	type job struct {
		info Info
		item ToLoad
	}
	var jobs []job
	for _, item := range list {
		key := Normalize(item.Path)
		if _, dup := bt.pending[key]; dup {
			continue
		}
		bt.pending[key] = item

		id, err := b.catalog.GetAssetIdByPath(item.Path, item.Type)
		if err != nil {
			b.push(bt.gen, ItemResult{ToLoad: item, Err: err})
			continue
		}
		info, _ := b.catalog.GetAssetInfoById(id)
		jobs = append(jobs, job{info: info, item: item})
	}

	if len(jobs) == 0 {
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(b.concurrency)
		for _, j := range jobs {
			g.Go(func() error {
				var err error
				if gctx.Err() != nil {
					err = ErrCancelled
				} else {
					err = b.loader.Load(gctx, j.info)
				}
				b.push(bt.gen, ItemResult{ToLoad: j.item, Id: j.info.Id, Err: err})
				// one failure must not cancel its siblings
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Poll delivers queued results for the active batch. Call it once per tick on
// the main thread.
func (b *BatchLoader) Poll() {
	b.mu.Lock()
	queue, gens := b.queue, b.queued
	b.queue, b.queued = nil, nil
	b.mu.Unlock()

	bt := b.active
	if bt == nil {
		return
	}

	for i, r := range queue {
		if gens[i] != bt.gen || bt.done {
			continue
		}
		key := Normalize(r.Path)
		if _, ok := bt.pending[key]; !ok {
			continue
		}
		delete(bt.pending, key)
		r.Pending = len(bt.pending)

		if r.OK() {
			bt.result.Loaded = append(bt.result.Loaded, r.ToLoad)
		} else {
			bt.result.Failed = append(bt.result.Failed, r.ToLoad)
			b.log.Error("asset failed to load", "path", r.Path, "type", r.Type, "err", r.Err)
		}
		if bt.onItem != nil {
			bt.onItem(r)
		}
		if b.active != bt {
			// a callback started a new batch or cancelled this one
			return
		}
	}

	b.complete(bt)
}

func (b *BatchLoader) complete(bt *batch) {
	if bt.done || len(bt.pending) > 0 {
		return
	}
	bt.done = true
	bt.cancel()
	b.active = nil
	if bt.onComplete != nil {
		bt.onComplete(bt.result)
	}
}

// Cancel drops the active batch. Loads already running are signalled through
// their context but not waited for; their results are discarded.
func (b *BatchLoader) Cancel() {
	if b.active == nil {
		return
	}
	b.active.cancel()
	b.active = nil
}

// Pending returns the paths still outstanding in the active batch, sorted.
func (b *BatchLoader) Pending() []string {
	if b.active == nil {
		return nil
	}
	paths := make([]string, 0, len(b.active.pending))
	for _, item := range b.active.pending {
		paths = append(paths, item.Path)
	}
	slices.Sort(paths)
	return paths
}

// Busy reports whether a batch is active and has not completed.
func (b *BatchLoader) Busy() bool {
	return b.active != nil && !b.active.done
}

// Close cancels the active batch and waits for worker goroutines to exit.
func (b *BatchLoader) Close() {
	b.Cancel()
	b.wg.Wait()
}

// UniqueToLoad builds a load list from asset ids, skipping duplicates and ids
// the catalog does not know.
func UniqueToLoad(catalog *Catalog, ids []Id) []ToLoad {
	seen := make(map[Id]ToLoad, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		if info, ok := catalog.GetAssetInfoById(id); ok {
			seen[id] = ToLoad{Path: info.RelativePath, Type: info.Type}
		}
	}
	list := slices.Collect(maps.Values(seen))
	slices.SortFunc(list, func(a, c ToLoad) int {
		switch {
		case a.Path < c.Path:
			return -1
		case a.Path > c.Path:
			return 1
		}
		return 0
	})
	return list
}
