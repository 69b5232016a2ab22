package strategy

import (
	"github.com/zappabad/stockpick/internal/market"
	marketview "github.com/zappabad/stockpick/internal/market/view"
	"github.com/zappabad/stockpick/internal/news"
)

// MarketReader provides read-only access to market data.
type MarketReader interface {
	Snapshot() marketview.Snapshot
}

// NewsReader provides read-only access to the news feed.
type NewsReader interface {
	Active() (news.HistoryItem, bool)
}

// Strategy chooses one asset from the market. ok is false when the market
// offers nothing to choose from.
type Strategy interface {
	Choose(mr MarketReader, nr NewsReader) (key market.AssetKey, reason string, ok bool)
}
