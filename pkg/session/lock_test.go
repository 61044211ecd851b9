package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type nopFlow struct{}

func (nopFlow) Load(context.Context) (domain.OptionList, error) { return nil, nil }
func (nopFlow) Draw(context.Context) (*domain.PickResult, error) { return nil, nil }
func (nopFlow) Commit(context.Context, string) error { return nil }
func (nopFlow) State() domain.FlowState { return domain.FlowState{} }
func (nopFlow) Snapshot() []domain.Entry { return nil }
func (nopFlow) IsComplete() bool { return false }
func (nopFlow) Reset() {}

func TestManager_LockLifecycle(t *testing.T) {
	seq := 0
	mgr := NewManager(
		func() (Flow, error) { return nopFlow{}, nil },
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("session-%d", seq) }),
	)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id, _, err := mgr.Create(ctx)
		assert.NoError(t, err)
		assert.NoError(t, mgr.WithLock(ctx, id, func(context.Context, Flow) error { return nil }))
		assert.NoError(t, mgr.Delete(id))
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
	assert.Empty(t, mgr.sessions)
}
