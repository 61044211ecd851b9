package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/luckydraw/pkg/adapters/memory"
	contract "github.com/aretw0/luckydraw/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRetriever_Contract(t *testing.T) {
	data := map[string]string{
		"brands.txt":             "Asus\nMi\n",
		"brands/series_asus.txt": "ROG Phone\nZenfone\n",
	}

	contract.RetrieverContractTest(t, memory.NewRetriever(data), data)
}

func TestMemoryRetriever_Put(t *testing.T) {
	r := memory.NewRetriever(nil)
	r.Put("cpu.txt", "A17\n")

	text, err := r.Retrieve(context.Background(), "cpu.txt")
	require.NoError(t, err)
	assert.Equal(t, "A17\n", text)
	assert.Equal(t, []string{"cpu.txt"}, r.IDs())
}

func TestMemoryRetriever_CanceledContext(t *testing.T) {
	r := memory.NewRetriever(map[string]string{"a.txt": "A"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Retrieve(ctx, "a.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
