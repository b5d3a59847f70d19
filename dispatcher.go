package main

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultChunkSize    = 20
	defaultChunkDelayMS = 1500
)

// chunkCount returns ceil(n/size).
func chunkCount(n, size int) int {
	return (n + size - 1) / size
}

// dispatchChunks partitions the canonical entries into contiguous chunks of
// at most ChunkSize, invokes the model once per chunk in order, and
// accumulates results. A fixed delay is inserted after every chunk except
// the last regardless of call latency: a static throughput cap, not
// adaptive backoff. Any single-chunk failure aborts the whole batch and all
// accumulated results are discarded.
func (w *Worker) dispatchChunks(ctx context.Context, run *Run, entries []CanonicalEntry, mode Mode) ([]ResultEntry, []SourceRef, error) {
	size := w.config.ChunkSize
	total := chunkCount(len(entries), size)

	run.mu.Lock()
	run.ChunkCount = total
	run.mu.Unlock()

	var results []ResultEntry
	var sources []SourceRef

	for i := 0; i < total; i++ {
		lo := i * size
		hi := lo + size
		if hi > len(entries) {
			hi = len(entries)
		}

		// Progress is reported before each dispatch. Dispatch spans
		// 5..95 percent of the run; validation and reconciliation take
		// the edges.
		progress := 5 + int(float64(i)/float64(total)*90)
		w.setProgress(run, StateDispatching,
			fmt.Sprintf("processing chunk %d/%d", i+1, total), progress)

		start := time.Now()
		chunkResults, chunkSources, err := w.reviewer.ReviewChunk(ctx, entries[lo:hi], mode)
		if err != nil {
			return nil, nil, fmt.Errorf("chunk %d/%d: %w", i+1, total, err)
		}
		if w.metrics != nil {
			w.metrics.remoteCallDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
			w.metrics.chunksDispatched.WithLabelValues(string(mode)).Inc()
		}

		results = append(results, chunkResults...)
		sources = append(sources, chunkSources...)

		if i < total-1 && w.config.ChunkDelay > 0 {
			w.setProgress(run, StateDelaying,
				fmt.Sprintf("pacing before chunk %d/%d", i+2, total), progress)
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(w.config.ChunkDelay):
			}
		}
	}

	return results, sources, nil
}
