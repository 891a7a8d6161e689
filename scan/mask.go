package scan

import (
	"sort"
	"sync"

	"github.com/minio/highwayhash"

	"github.com/viant/cpgraph/cgraph"
)

// maskShardCount shards the first-writer-wins table to keep lock contention
// low across concurrent workers; a keyed hash picks the shard here, the same
// technique used elsewhere in this module to fingerprint classfile bytes.
const maskShardCount = 7

var maskHashKey = []byte("cpgraph-scan-mask-table-key-32by")

type maskEntry struct {
	rank int
	sc   cgraph.ScannedClass
}

type maskShard struct {
	mu      sync.Mutex
	entries map[string]maskEntry
	masked  []cgraph.MaskedResource
}

// maskTable accumulates ScannedClass candidates keyed by class name,
// resolving duplicates by classpath rank: the entry from the
// lowest-ranked (earliest-seen) root always wins, regardless of which
// worker goroutine finishes first.
type maskTable struct {
	shards [maskShardCount]*maskShard
}

func newMaskTable() *maskTable {
	t := &maskTable{}
	for i := range t.shards {
		t.shards[i] = &maskShard{entries: make(map[string]maskEntry)}
	}
	return t
}

func (t *maskTable) offer(name string, sc cgraph.ScannedClass, rank int) {
	shard := t.shards[shardFor(name)]
	shard.mu.Lock()
	defer shard.mu.Unlock()
	existing, ok := shard.entries[name]
	if !ok {
		shard.entries[name] = maskEntry{rank: rank, sc: sc}
		return
	}
	if rank < existing.rank {
		shard.masked = append(shard.masked, maskedResourceOf(existing))
		shard.entries[name] = maskEntry{rank: rank, sc: sc}
		return
	}
	shard.masked = append(shard.masked, maskedResourceOf(maskEntry{rank: rank, sc: sc}))
}

func maskedResourceOf(e maskEntry) cgraph.MaskedResource {
	return cgraph.MaskedResource{
		ClasspathEntry: e.sc.ClasspathEntry,
		RelativePath:   e.sc.RelativePath,
		Rank:           e.rank,
		ContentHash:    e.sc.ContentHash,
	}
}

// orderedClasses returns every surviving ScannedClass sorted by classpath
// rank and then relative path, the assembly order cgraph.Linker expects.
func (t *maskTable) orderedClasses() []cgraph.ScannedClass {
	var all []maskEntry
	for _, shard := range t.shards {
		shard.mu.Lock()
		for _, e := range shard.entries {
			all = append(all, e)
		}
		shard.mu.Unlock()
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].rank != all[j].rank {
			return all[i].rank < all[j].rank
		}
		return all[i].sc.RelativePath < all[j].sc.RelativePath
	})
	out := make([]cgraph.ScannedClass, len(all))
	for i, e := range all {
		out[i] = e.sc
	}
	return out
}

// orderedMasked returns every masked resource recorded across shards; the
// caller (Linker.Link) re-sorts into its own deterministic order, so this
// need not sort.
func (t *maskTable) orderedMasked() []cgraph.MaskedResource {
	var out []cgraph.MaskedResource
	for _, shard := range t.shards {
		shard.mu.Lock()
		out = append(out, shard.masked...)
		shard.mu.Unlock()
	}
	return out
}

func shardFor(name string) int {
	h, err := highwayhash.New64(maskHashKey)
	if err != nil {
		return 0
	}
	_, _ = h.Write([]byte(name))
	return int(h.Sum64() % maskShardCount)
}
