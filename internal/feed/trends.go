// Package feed surfaces beauty and fashion trend articles pulled from
// external RSS/Atom feeds. Articles are opaque to the core: fetched,
// cached, and paginated, never interpreted.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lumina/glow-platform/internal/config"
	"github.com/lumina/glow-platform/internal/pkg/httpretry"
	"github.com/lumina/glow-platform/internal/pkg/logger"
)

// Article is one trend item as served to clients.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary,omitempty"`
	Source      string    `json:"source"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Page is one page of trend articles.
type Page struct {
	Articles   []Article `json:"articles"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalItems int       `json:"total_items"`
}

// Service fetches and caches trend feeds. A background refresh loop keeps
// the cache warm; reads never block on the network.
type Service struct {
	urls     []string
	pageSize int
	interval time.Duration
	parser   *gofeed.Parser
	client   httpretry.HTTPDoer

	mu       sync.RWMutex
	articles []Article

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewService builds the trends service from config.
func NewService(cfg config.TrendsConfig) *Service {
	return &Service{
		urls:     cfg.FeedURLs,
		pageSize: cfg.PageSize,
		interval: cfg.RefreshInterval(),
		parser:   gofeed.NewParser(),
		client:   httpretry.NewRetryClient(&http.Client{Timeout: cfg.Timeout()}, 3),
	}
}

// Refresh fetches every configured feed and replaces the cache. A feed
// that fails is logged and skipped; the others still land.
func (s *Service) Refresh(ctx context.Context) {
	var fresh []Article
	for _, url := range s.urls {
		articles, err := s.fetchFeed(ctx, url)
		if err != nil {
			logger.Warn("Failed to fetch trends feed", "url", url, "error", err.Error())
			continue
		}
		fresh = append(fresh, articles...)
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].PublishedAt.After(fresh[j].PublishedAt)
	})

	s.mu.Lock()
	s.articles = fresh
	s.mu.Unlock()
	logger.Info("Trends cache refreshed", "article_count", len(fresh), "feed_count", len(s.urls))
}

// Trends returns one page of cached articles, newest first. page starts
// at 1; pageSize <= 0 uses the configured default.
func (s *Service) Trends(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.articles)
	start := (page - 1) * pageSize
	if start >= total {
		return Page{Articles: []Article{}, Page: page, PageSize: pageSize, TotalItems: total}
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	out := make([]Article, end-start)
	copy(out, s.articles[start:end])
	return Page{Articles: out, Page: page, PageSize: pageSize, TotalItems: total}
}

// Start primes the cache and begins the periodic refresh loop.
func (s *Service) Start(ctx context.Context) {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return
	}
	s.running = true
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.runMu.Unlock()

	s.Refresh(runCtx)

	s.wg.Add(1)
	go s.loop(runCtx)
	logger.Info("Trends refresh loop started", "interval", s.interval.String())
}

// Stop halts the refresh loop and waits for it to exit.
func (s *Service) Stop() {
	s.runMu.Lock()
	if !s.running {
		s.runMu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.runMu.Unlock()

	cancel()
	s.wg.Wait()
	logger.Info("Trends refresh loop stopped")
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

func (s *Service) fetchFeed(ctx context.Context, url string) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %d", resp.StatusCode)
	}

	parsed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, toArticle(parsed.Title, item))
	}
	return articles, nil
}

func toArticle(source string, item *gofeed.Item) Article {
	a := Article{
		Title:   item.Title,
		Link:    item.Link,
		Summary: item.Description,
		Source:  source,
	}
	if item.PublishedParsed != nil {
		a.PublishedAt = *item.PublishedParsed
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	return a
}
