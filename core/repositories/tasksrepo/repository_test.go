package tasksrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/core/repositories/tasksrepo/stores/tasksmemstore"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStorer struct {
	mock.Mock
}

func (m *mockStorer) FindAll(ctx context.Context) ([]tasksrepo.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]tasksrepo.Task)
	return tasks, args.Error(1)
}

func (m *mockStorer) FindByID(ctx context.Context, taskID int64) (tasksrepo.Task, bool, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(tasksrepo.Task), args.Bool(1), args.Error(2)
}

func (m *mockStorer) Save(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(tasksrepo.Task), args.Error(1)
}

func quietLogger() *logger.Logger {
	return logger.NewDefault(logger.WithLevel("ERROR"))
}

func TestRepository_DelegatesToStore(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stored := []tasksrepo.Task{
		{TaskID: 2, Name: "second", CreatedAt: created, UpdatedAt: created},
		{TaskID: 1, Name: "first", CreatedAt: created, UpdatedAt: created},
	}

	store := new(mockStorer)
	store.On("FindAll", ctx).Return(stored, nil).Once()
	store.On("FindByID", ctx, int64(2)).Return(stored[0], true, nil).Once()
	store.On("FindByID", ctx, int64(3)).Return(tasksrepo.Task{}, false, nil).Once()
	store.On("Save", ctx, tasksrepo.Task{Name: "new"}).Return(tasksrepo.Task{TaskID: 3, Name: "new"}, nil).Once()

	repo := tasksrepo.NewRepository(quietLogger(), store)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, all, "store order is preserved")

	got, found, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored[0], got)

	_, found, err = repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, found)

	saved, err := repo.Save(ctx, tasksrepo.Task{Name: "new"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.TaskID)

	store.AssertExpectations(t)
}

func TestRepository_PropagatesStoreErrorsUnchanged(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("store unavailable")

	store := new(mockStorer)
	store.On("FindAll", ctx).Return(nil, storeErr)
	store.On("FindByID", ctx, int64(1)).Return(tasksrepo.Task{}, false, storeErr)
	store.On("Save", ctx, mock.Anything).Return(tasksrepo.Task{}, storeErr)

	repo := tasksrepo.NewRepository(quietLogger(), store)

	_, err := repo.List(ctx)
	assert.Same(t, storeErr, err)

	_, found, err := repo.GetByID(ctx, 1)
	assert.False(t, found)
	assert.Same(t, storeErr, err)

	_, err = repo.Save(ctx, tasksrepo.Task{Name: "x"})
	assert.Same(t, storeErr, err)

	store.AssertNumberOfCalls(t, "FindAll", 1)
	store.AssertNumberOfCalls(t, "Save", 1)
}

func TestRepository_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := tasksrepo.NewRepository(quietLogger(), tasksmemstore.NewStore())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	saved, err := repo.Save(ctx, tasksrepo.Task{Name: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.TaskID)
	assert.Equal(t, "A", saved.Name)

	got, found, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, got)

	_, found, err = repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)

	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []tasksrepo.Task{saved}, all)
}

func TestTask_IsNew(t *testing.T) {
	assert.True(t, tasksrepo.Task{Name: "draft"}.IsNew())
	assert.False(t, tasksrepo.Task{TaskID: 1}.IsNew())
}
