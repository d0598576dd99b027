package batch

// DefaultSize caps how many ids any single IN-list query may carry. The
// backend rejects or truncates unbounded IN clauses, so batching is a
// correctness requirement, not an optimization.
const DefaultSize = 100

// Chunk splits ids into consecutive slices of at most size elements.
// A size <= 0 falls back to DefaultSize. The returned slices alias ids.
func Chunk[T any](ids []T, size int) [][]T {
	if size <= 0 {
		size = DefaultSize
	}
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// ForEach invokes fn once per chunk, sequentially, stopping at the first
// error. Sequential issue is deliberate: it bounds concurrent load on the
// backend.
func ForEach[T any](ids []T, size int, fn func(chunk []T) error) error {
	for _, chunk := range Chunk(ids, size) {
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}
