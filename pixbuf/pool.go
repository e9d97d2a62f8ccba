package pixbuf

import "sync"

// Pool is a thread-safe pool of scratch storage used to repack strided views.
//
// Pool groups slices by element type and length, so identically shaped
// uploads reuse the same memory. Slices handed out by Get are not cleared:
// callers are expected to overwrite every element (Gather does).
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]any
	maxSize int // max slices per bucket
}

type poolKey struct {
	dtype DType
	n     int
}

// NewPool creates a pool retaining at most maxPerBucket slices per
// element type and length. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]any),
		maxSize: maxPerBucket,
	}
}

// Get returns a slice of n elements of type d, reusing pooled storage when possible.
func (p *Pool) Get(d DType, n int) any {
	key := poolKey{dtype: d, n: n}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return s
	}
	p.mu.Unlock()

	return MakeSlice(d, n)
}

// Put returns s to the pool. Slices of unknown type are ignored, as are
// slices arriving at a full bucket.
func (p *Pool) Put(s any) {
	d, ok := dtypeOf(s)
	if !ok {
		return
	}
	key := poolKey{dtype: d, n: sliceLen(s)}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, s)
}

// Len returns the number of slices currently retained.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

// Count returns the number of retained slices of n elements of type d.
func (p *Pool) Count(d DType, n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{dtype: d, n: n}])
}

var defaultPool = NewPool(4)

// Scratch returns a slice from the package-level pool.
func Scratch(d DType, n int) any {
	return defaultPool.Get(d, n)
}

// Pooled returns the number of slices of n elements of type d retained by the
// package-level pool.
func Pooled(d DType, n int) int {
	return defaultPool.Count(d, n)
}

// Release returns a slice obtained from Scratch to the package-level pool.
func Release(s any) {
	defaultPool.Put(s)
}
