package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"Sulam-App/internal/domain/model"
	"Sulam-App/internal/domain/repository"
)

// Catalog はPOIとゾーンの読み取り専用スナップショットを保持する
// 更新時はスライスとマップを丸ごと作り直して差し替えるため、読み手が受け取ったスライスは変更されない
type Catalog struct {
	mu      sync.RWMutex
	pois    []*model.Place
	zones   []*model.Place
	ordered []*model.Place
	byID    map[string]*model.Place
	version uint64

	subsMu   sync.Mutex
	subs     map[chan uint64]struct{}
	notified uint64 // 最後に通知したバージョン
}

// NewCatalog は空のCatalogを作成
func NewCatalog() *Catalog {
	return &Catalog{
		ordered: []*model.Place{},
		byID:    map[string]*model.Place{},
		subs:    map[chan uint64]struct{}{},
	}
}

// Replace は指定種別の場所を全件差し替え、新しいバージョン番号を返す
func (c *Catalog) Replace(kind model.PlaceKind, places []*model.Place) uint64 {
	cleaned := make([]*model.Place, 0, len(places))
	for _, p := range places {
		if p == nil {
			continue
		}
		p.Kind = kind
		cleaned = append(cleaned, p)
	}

	c.mu.Lock()
	switch kind {
	case model.KindPOI:
		c.pois = cleaned
	case model.KindZone:
		c.zones = cleaned
	default:
		c.mu.Unlock()
		log.Printf("⚠️ 未知の種別のため無視: %s", kind)
		return c.Version()
	}

	ordered := make([]*model.Place, 0, len(c.pois)+len(c.zones))
	ordered = append(ordered, c.pois...)
	ordered = append(ordered, c.zones...)
	byID := make(map[string]*model.Place, len(ordered))
	for _, p := range ordered {
		// IDが重複した場合は先に現れた方（POI優先）を残す
		if _, exists := byID[p.ID]; !exists {
			byID[p.ID] = p
		}
	}
	c.ordered = ordered
	c.byID = byID
	c.version++
	version := c.version
	c.mu.Unlock()

	log.Printf("📍 カタログ更新: %s %d件 (version=%d)", kind, len(cleaned), version)
	c.notify(version)
	return version
}

// Refresh はリポジトリからPOIとゾーンを読み直してカタログを更新する
func (c *Catalog) Refresh(ctx context.Context, repo repository.PlacesRepository) error {
	pois, err := repo.List(ctx, model.KindPOI)
	if err != nil {
		return fmt.Errorf("POI一覧の取得に失敗: %w", err)
	}
	zones, err := repo.List(ctx, model.KindZone)
	if err != nil {
		return fmt.Errorf("ゾーン一覧の取得に失敗: %w", err)
	}
	c.Replace(model.KindPOI, pois)
	c.Replace(model.KindZone, zones)
	return nil
}

// Get はIDで場所を取得する
func (c *Catalog) Get(id string) (*model.Place, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// All はPOI（コレクション順）、ゾーン（コレクション順）の順で全件を返す
func (c *Catalog) All() []*model.Place {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ordered
}

// Snapshot は同じバージョンの全件（All と同じ順序）とIDマップを返す
// どちらも読み取り専用として扱うこと
func (c *Catalog) Snapshot() ([]*model.Place, map[string]*model.Place) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ordered, c.byID
}

// ByKind は指定種別の全件を返す
func (c *Catalog) ByKind(kind model.PlaceKind) []*model.Place {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if kind == model.KindZone {
		return c.zones
	}
	return c.pois
}

// Len は全件数
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}

// Version は現在のスナップショット番号
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Subscribe はカタログ更新通知を受け取るチャネルと解除関数を返す
// 受信が追いつかない場合は古い通知を捨て、最新のバージョンだけが残る
func (c *Catalog) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)
	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, ch)
			c.subsMu.Unlock()
		})
	}
	return ch, cancel
}

// notify は購読者に新しいバージョンを送る
// 並行する Replace の通知が前後しても、通知済みより古いバージョンは送らない
func (c *Catalog) notify(version uint64) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if version <= c.notified {
		return
	}
	c.notified = version
	for ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- version:
		default:
		}
	}
}
