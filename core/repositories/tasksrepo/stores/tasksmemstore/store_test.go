package tasksmemstore_test

import (
	"context"
	"testing"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksmemstore"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/taskstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Conformance(t *testing.T) {
	taskstest.RunStorerSuite(t, func(t *testing.T) tasksrepo.Storer {
		return tasksmemstore.NewStore()
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := tasksmemstore.NewStore()

	saved, err := s.Save(ctx, tasksrepo.Task{Name: "original"})
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	all[0].Name = "mutated"

	got, found, err := s.FindByID(ctx, saved.TaskID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "original", got.Name)
}

func TestStore_SaveHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tasksmemstore.NewStore().Save(ctx, tasksrepo.Task{Name: "late"})
	require.ErrorIs(t, err, context.Canceled)
}
