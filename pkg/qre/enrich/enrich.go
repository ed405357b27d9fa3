// Package enrich fetches live quotes used to prefill prices and the
// overview's live column.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/golang-lru/v2/expirable"
	yfgo "github.com/komsit37/yf-go"
)

// Quote is the live market snapshot for a symbol.
type Quote struct {
	Sym    string
	Name   string
	Price  string
	ChgFmt string
	ChgRaw float64
}

// QuoteService fetches a live quote for a symbol.
type QuoteService interface {
	Get(ctx context.Context, sym string) (Quote, error)
}

// YFService implements QuoteService using yf-go.
type YFService struct {
	client  *yfgo.Client
	timeout time.Duration
}

func NewYFService(timeout time.Duration) *YFService {
	return &YFService{client: yfgo.NewClient(), timeout: timeout}
}

func (s *YFService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.client.QuoteSummaryTyped(cctx, sym, []yfgo.QuoteSummaryModule{yfgo.ModulePrice})
	if err != nil {
		return Quote{}, fmt.Errorf("quote %s: %w", sym, err)
	}
	if res.Price == nil {
		return Quote{}, fmt.Errorf("no price for %s", sym)
	}

	q := Quote{Sym: sym}
	p := res.Price.RegularMarketPrice
	if p.Fmt != "" {
		q.Price = p.Fmt
	} else if p.Raw != nil {
		q.Price = fmt.Sprintf("%.2f", *p.Raw)
	}
	cp := res.Price.RegularMarketChangePercent
	q.ChgFmt = cp.Fmt
	if cp.Raw != nil {
		q.ChgRaw = *cp.Raw
		if q.ChgFmt == "" {
			q.ChgFmt = fmt.Sprintf("%.2f%%", q.ChgRaw)
		}
	}
	if res.Price.ShortName != "" {
		q.Name = res.Price.ShortName
	} else if res.Price.LongName != "" {
		q.Name = res.Price.LongName
	}
	return q, nil
}

// CacheService decorates a QuoteService with a TTL+LRU cache.
type CacheService struct {
	next  QuoteService
	cache *expirable.LRU[string, Quote]
}

func NewCacheService(next QuoteService, ttl time.Duration, size int) *CacheService {
	if size <= 0 {
		size = 128
	}
	return &CacheService{next: next, cache: expirable.NewLRU[string, Quote](size, nil, ttl)}
}

func (c *CacheService) Get(ctx context.Context, sym string) (Quote, error) {
	if sym == "" {
		return Quote{}, nil
	}
	if q, ok := c.cache.Get(sym); ok {
		return q, nil
	}
	q, err := c.next.Get(ctx, sym)
	if err != nil {
		return q, err
	}
	c.cache.Add(sym, q)
	glog.V(2).Infof("[enrich] cached %s price=%s", sym, q.Price)
	return q, nil
}

// Len reports how many quotes are cached.
func (c *CacheService) Len() int { return c.cache.Len() }
