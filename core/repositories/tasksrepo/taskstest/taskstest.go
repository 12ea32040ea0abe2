// Package taskstest holds the behaviour every tasksrepo.Storer must share.
// Store packages run RunStorerSuite from their own tests.
package taskstest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewStoreFunc returns an empty store whose id sequence starts at 1.
type NewStoreFunc func(t *testing.T) tasksrepo.Storer

// RunStorerSuite runs the shared store behaviour against stores built by newStore.
func RunStorerSuite(t *testing.T, newStore NewStoreFunc) {
	t.Run("empty store lists nothing", func(t *testing.T) {
		testEmptyStore(t, newStore(t))
	})
	t.Run("save list get scenario", func(t *testing.T) {
		testScenario(t, newStore(t))
	})
	t.Run("update in place", func(t *testing.T) {
		testUpdateInPlace(t, newStore(t))
	})
	t.Run("unknown id inserts", func(t *testing.T) {
		testUnknownIDInserts(t, newStore(t))
	})
	t.Run("list order", func(t *testing.T) {
		testListOrder(t, newStore(t))
	})
	t.Run("concurrent saves", func(t *testing.T) {
		testConcurrentSaves(t, newStore(t))
	})
}

// RequireSameTask compares tasks field by field, using time.Equal for timestamps.
func RequireSameTask(t *testing.T, want, got tasksrepo.Task) {
	t.Helper()
	require.Equal(t, want.TaskID, got.TaskID, "task_id")
	require.Equal(t, want.Name, got.Name, "name")
	require.Equal(t, want.Description, got.Description, "description")
	require.Equal(t, want.Completed, got.Completed, "completed")
	require.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at: want %s got %s", want.CreatedAt, got.CreatedAt)
	require.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at: want %s got %s", want.UpdatedAt, got.UpdatedAt)
}

func testEmptyStore(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()

	tasks, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
}

func testScenario(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()

	saved, err := s.Save(ctx, tasksrepo.Task{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.TaskID)
	assert.Equal(t, "A", saved.Name)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())

	got, found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	RequireSameTask(t, saved, got)

	_, found, err = s.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	RequireSameTask(t, saved, all[0])
}

func testUpdateInPlace(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()

	first, err := s.Save(ctx, tasksrepo.Task{Name: "draft", Description: "v1"})
	require.NoError(t, err)

	first.Name = "final"
	first.Description = "v2"
	first.Completed = true
	second, err := s.Save(ctx, first)
	require.NoError(t, err)

	assert.Equal(t, first.TaskID, second.TaskID)
	assert.Equal(t, "final", second.Name)
	assert.True(t, second.Completed)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "created_at is kept on update")
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	got, found, err := s.FindByID(ctx, first.TaskID)
	require.NoError(t, err)
	require.True(t, found)
	RequireSameTask(t, second, got)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "update must not create a duplicate")
}

func testUnknownIDInserts(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()

	saved, err := s.Save(ctx, tasksrepo.Task{TaskID: 999, Name: "stray"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.TaskID, "unknown ids are replaced by a store-assigned id")

	_, found, err := s.FindByID(ctx, 999)
	require.NoError(t, err)
	assert.False(t, found)
}

func testListOrder(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()

	want := make(map[int64]string)
	for _, name := range []string{"c", "a", "b"} {
		saved, err := s.Save(ctx, tasksrepo.Task{Name: name})
		require.NoError(t, err)
		want[saved.TaskID] = name
	}

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(want))

	got := make(map[int64]string, len(all))
	for _, task := range all {
		got[task.TaskID] = task.Name
	}
	assert.Equal(t, want, got)
	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool { return all[i].TaskID < all[j].TaskID }))
}

func testConcurrentSaves(t *testing.T, s tasksrepo.Storer) {
	ctx := context.Background()
	const n = 10

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, err := s.Save(ctx, tasksrepo.Task{Name: fmt.Sprintf("task-%d", i)})
			if err != nil {
				errs <- err
				return
			}
			ids <- saved.TaskID
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}
