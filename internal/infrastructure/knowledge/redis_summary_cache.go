package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"Sulam-App/internal/domain/repository"
	"Sulam-App/internal/infrastructure/metrics"
)

const summaryKeyPrefix = "summary:"

// OpenRedis はRedisクライアントを開く。host が空ならnil
func OpenRedis(host, port, pass string, db int) *redis.Client {
	if host == "" {
		return nil
	}
	if port == "" {
		port = "6379"
	}
	return redis.NewClient(&redis.Options{Addr: host + ":" + port, Password: pass, DB: db})
}

// CachedKnowledgeRepository は要約をRedisにキャッシュするデコレータ
// 要約が見つからなかった結果（空文字列）もキャッシュする
type CachedKnowledgeRepository struct {
	next repository.KnowledgeRepository
	rc   *redis.Client
	ttl  time.Duration
}

var _ repository.KnowledgeRepository = (*CachedKnowledgeRepository)(nil)

// NewCachedKnowledgeRepository は新しいCachedKnowledgeRepositoryを作成
func NewCachedKnowledgeRepository(next repository.KnowledgeRepository, rc *redis.Client, ttl time.Duration) *CachedKnowledgeRepository {
	return &CachedKnowledgeRepository{next: next, rc: rc, ttl: ttl}
}

// Summary はキャッシュを確認し、なければ元のリポジトリから取得して保存する
// Redisの障害は取得を妨げない
func (c *CachedKnowledgeRepository) Summary(ctx context.Context, title string) (string, error) {
	key := summaryKeyPrefix + strings.ToLower(strings.TrimSpace(title))

	cached, err := c.rc.Get(ctx, key).Result()
	switch {
	case err == nil:
		metrics.SummaryCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, redis.Nil):
		metrics.SummaryCacheTotal.WithLabelValues("miss").Inc()
	default:
		log.Printf("⚠️ Redis読み取り失敗（キャッシュなしで続行）: %v", err)
	}

	summary, err := c.next.Summary(ctx, title)
	if err != nil {
		return "", fmt.Errorf("要約の取得に失敗: %w", err)
	}

	if err := c.rc.Set(ctx, key, summary, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Redis書き込み失敗: %v", err)
	}
	return summary, nil
}
