package gopoly

import "sync"

// NewCatalogContext returns a CatalogContext whose Done() fires once Close() was called and every
// attached Catalog has detached.
func NewCatalogContext() CatalogContext {
	return &catalogContext{
		attached: make(map[Catalog]struct{}),
		done:     make(chan struct{}),
	}
}

type catalogContext struct {
	mu       sync.Mutex
	attached map[Catalog]struct{}
	closing  bool
	finished bool
	done     chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	ctx.attached[cat] = struct{}{}

	// late arrivals are closed right away and still hold Done() until they detach
	if ctx.closing {
		go cat.Close()
	}
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	delete(ctx.attached, cat)
	ctx.finishIfIdle()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.done
}

func (ctx *catalogContext) Close() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()

	if ctx.closing {
		return
	}
	ctx.closing = true
	for cat := range ctx.attached {
		go cat.Close()
	}
	ctx.finishIfIdle()
}

// caller holds ctx.mu
func (ctx *catalogContext) finishIfIdle() {
	if ctx.closing && !ctx.finished && len(ctx.attached) == 0 {
		ctx.finished = true
		close(ctx.done)
	}
}
