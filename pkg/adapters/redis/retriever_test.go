package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/luckydraw/pkg/adapters/redis"
	contract "github.com/aretw0/luckydraw/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRetriever_Contract(t *testing.T) {
	// Setup miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	data := map[string]string{
		"brands.txt":             "Asus\nMi\n",
		"brands/series_asus.txt": "ROG Phone\n",
	}
	for id, text := range data {
		require.NoError(t, mr.Set(redis.DefaultPrefix+id, text))
	}

	contract.RetrieverContractTest(t, redis.NewFromClient(client), data)
}

func TestRedisRetriever_PublishWithPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})

	r := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, "cpu.txt", "A17\nA18\n"))

	// Verify keys in Redis directly
	assert.True(t, mr.Exists("custom:app:cpu.txt"), "Expected key with custom prefix to exist")

	text, err := r.Retrieve(ctx, "cpu.txt")
	require.NoError(t, err)
	assert.Equal(t, "A17\nA18\n", text)
}

func TestRedisRetriever_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := backend.NewClient(&backend.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	r := redis.NewFromClient(client)
	mr.Close()

	_, err = r.Retrieve(context.Background(), "brands.txt")
	assert.Error(t, err)
}
