package knowledge

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingKnowledge struct {
	calls   int
	summary string
}

func (c *countingKnowledge) Summary(ctx context.Context, title string) (string, error) {
	c.calls++
	return c.summary, nil
}

func TestCachedKnowledgeRepository_WithRedis(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST が未設定のためスキップ")
	}
	rc := OpenRedis(host, os.Getenv("REDIS_TEST_PORT"), "", 0)
	require.NotNil(t, rc)
	defer rc.Close()
	ctx := context.Background()
	require.NoError(t, rc.Ping(ctx).Err())

	title := "cache-test-" + time.Now().Format("150405.000000")
	defer rc.Del(ctx, summaryKeyPrefix+title)

	inner := &countingKnowledge{summary: "A park."}
	repo := NewCachedKnowledgeRepository(inner, rc, time.Minute)

	first, err := repo.Summary(ctx, title)
	require.NoError(t, err)
	second, err := repo.Summary(ctx, title)
	require.NoError(t, err)

	assert.Equal(t, "A park.", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestOpenRedis_EmptyHost(t *testing.T) {
	assert.Nil(t, OpenRedis("", "6379", "", 0))
}
