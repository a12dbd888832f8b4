package oracle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/multiyield-labs/multiyield-engine/internal/types"
)

// Static serves a fixed price table. Feed ids are case insensitive.
type Static struct {
	mu     sync.RWMutex
	prices map[string]int64
}

func NewStatic(prices map[string]int64) *Static {
	s := &Static{prices: make(map[string]int64, len(prices))}
	for feed, price := range prices {
		s.prices[normalizeFeedID(feed)] = price
	}
	return s
}

// SetPrice overrides a single feed.
func (s *Static) SetPrice(feedID string, price int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[normalizeFeedID(feedID)] = price
}

func (s *Static) GetPrice(_ context.Context, feedID string) (*PriceData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	price, ok := s.prices[normalizeFeedID(feedID)]
	if !ok {
		return nil, types.NewErrorWithMsg(types.OracleError, "unknown price feed %q", feedID)
	}
	return &PriceData{
		Price:       price,
		PublishTime: time.Now().Unix(),
	}, nil
}

func normalizeFeedID(feedID string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(feedID)), "0x")
}
