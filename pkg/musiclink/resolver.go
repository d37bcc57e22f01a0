package musiclink

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// defaultAdapterTimeout bounds each outbound adapter call so a hung service
// cannot hang the whole request.
const defaultAdapterTimeout = 10 * time.Second

// Resolver orchestrates the configured adapters: it identifies the source
// service for an inbound link, extracts canonical metadata from it, and
// queries every adapter for an equivalent link. Per-adapter failures during
// reciprocal lookup are swallowed; they only shrink the link list.
type Resolver struct {
	adapters []Adapter
	searcher Searcher
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResolver creates a resolver over a fixed, ordered adapter list. The
// free-text search adapter is selected here, once: the first adapter that
// implements Searcher.
func NewResolver(adapters []Adapter, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var searcher Searcher
	for _, adapter := range adapters {
		if s, ok := adapter.(Searcher); ok {
			searcher = s
			break
		}
	}

	return &Resolver{
		adapters: adapters,
		searcher: searcher,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve turns a music service link into a result carrying the extracted
// item and equivalent links on every service that found a match. It returns
// ErrUnsupportedLink when no adapter recognizes the link and an
// *ExtractionError when the source service's metadata cannot be read.
func (r *Resolver) Resolve(ctx context.Context, link string) (*Result, error) {
	var source Adapter
	for _, adapter := range r.adapters {
		if adapter.CanHandleLink(link) {
			source = adapter
			break
		}
	}
	if source == nil {
		return nil, ErrUnsupportedLink
	}

	item, err := r.extract(ctx, source, link)
	if err != nil {
		return nil, err
	}

	return &Result{
		Item:  item,
		Links: r.collectLinks(ctx, item),
	}, nil
}

// Search delegates to the search-capable adapter, resolving cross-service
// links for every hit. Without a search adapter it returns nothing.
func (r *Resolver) Search(ctx context.Context, query string) ([]Result, error) {
	if r.searcher == nil {
		return nil, nil
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.searcher.Search(searchCtx, query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{
			Item:  item,
			Links: r.collectLinks(ctx, item),
		})
	}
	return results, nil
}

// extract classifies the link by shape and runs the matching extractor with
// a bounded timeout.
func (r *Resolver) extract(ctx context.Context, source Adapter, link string) (Item, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if source.LinkIsSong(link) {
		song, err := source.LinkToSong(ctx, link)
		if err != nil {
			return nil, err
		}
		return song, nil
	}

	album, err := source.LinkToAlbum(ctx, link)
	if err != nil {
		return nil, err
	}
	return album, nil
}

// collectLinks fans the reciprocal lookup out to every adapter concurrently
// and keeps the successes in adapter iteration order. Every adapter is
// asked, including the source; adapters are independent and the resolver
// does not deduplicate across services.
func (r *Resolver) collectLinks(ctx context.Context, item Item) []ServiceLink {
	found := make([]ServiceLink, len(r.adapters))

	var g errgroup.Group
	for i, adapter := range r.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			link, err := r.lookup(ctx, adapter, item)
			if err != nil {
				// A missing match is this service simply having no answer.
				r.logger.Debug("reciprocal lookup failed",
					zap.String("service", adapter.ServiceName()),
					zap.String("item", item.Display()),
					zap.Error(err))
				return nil
			}
			found[i] = ServiceLink{Service: adapter.ServiceName(), URL: link}
			return nil
		})
	}
	_ = g.Wait()

	links := make([]ServiceLink, 0, len(found))
	for _, l := range found {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}

// lookup runs one adapter's reciprocal search with its own timeout. A panic
// inside an adapter is contained here so a single buggy adapter cannot take
// down the request.
func (r *Resolver) lookup(ctx context.Context, adapter Adapter, item Item) (link string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("adapter panicked: %v", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch it := item.(type) {
	case *Song:
		return adapter.SongToLink(ctx, it)
	case *Album:
		return adapter.AlbumToLink(ctx, it)
	default:
		return "", fmt.Errorf("unknown item type %T", item)
	}
}
