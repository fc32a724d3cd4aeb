package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formdrop/formdrop/internal/auth"
	"github.com/formdrop/formdrop/internal/metrics"
	"github.com/formdrop/formdrop/internal/model"
	"github.com/formdrop/formdrop/internal/repository"
	"github.com/formdrop/formdrop/internal/validation"
)

// memoryStore enforces email uniqueness the way the users table does.
type memoryStore struct {
	mu        sync.Mutex
	users     []*model.User
	createErr error
	listErr   error
	calls     int
}

func (m *memoryStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = int64(len(m.users) + 1)
	user.CreatedAt = time.Now()
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *memoryStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.users, nil
}

func annSubmission() validation.Submission {
	return validation.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"}
}

func TestRegister_Success(t *testing.T) {
	store := &memoryStore{}
	rec := metrics.NewInMemory()
	svc := NewUserService(store, rec, nil)

	user, err := svc.Register(context.Background(), annSubmission())
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Nil(t, user.Message)
	require.Len(t, store.users, 1)

	stored := store.users[0]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	ok, err := auth.VerifyPassword("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	snap := rec.Snapshot()
	assert.Equal(t, uint64(1), snap.SubmissionsSuccess)
	assert.Equal(t, uint64(1), snap.InsertDurationCount)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := &memoryStore{}
	rec := metrics.NewInMemory()
	svc := NewUserService(store, rec, nil)

	_, err := svc.Register(context.Background(), annSubmission())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), annSubmission())
	assert.ErrorIs(t, err, ErrEmailRegistered)
	assert.Len(t, store.users, 1)
	assert.Equal(t, uint64(1), rec.Snapshot().SubmissionsDuplicate)
}

func TestRegister_StorageError(t *testing.T) {
	dbErr := errors.New("connection refused")
	store := &memoryStore{createErr: dbErr}
	rec := metrics.NewInMemory()
	svc := NewUserService(store, rec, nil)

	_, err := svc.Register(context.Background(), annSubmission())
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrEmailRegistered)
	assert.Equal(t, 1, store.calls, "no retries")
	assert.Equal(t, uint64(1), rec.Snapshot().SubmissionsError)
}

func TestRegister_LongPasswordStored(t *testing.T) {
	store := &memoryStore{}
	rec := metrics.NewInMemory()
	svc := NewUserService(store, rec, nil)

	sub := annSubmission()
	sub.Password = strings.Repeat("a", 80)

	user, err := svc.Register(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, uint64(1), rec.Snapshot().SubmissionsSuccess)

	match, err := auth.VerifyPassword(sub.Password, user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestRegister_KeepsMessage(t *testing.T) {
	store := &memoryStore{}
	svc := NewUserService(store, nil, nil)

	msg := "hello"
	sub := annSubmission()
	sub.Message = &msg

	user, err := svc.Register(context.Background(), sub)
	require.NoError(t, err)
	require.NotNil(t, user.Message)
	assert.Equal(t, "hello", *user.Message)
}

func TestListUsers(t *testing.T) {
	store := &memoryStore{users: []*model.User{{ID: 2}, {ID: 1}}}
	rec := metrics.NewInMemory()
	svc := NewUserService(store, rec, nil)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, uint64(1), rec.Snapshot().UsersListed)
}

func TestListUsers_Error(t *testing.T) {
	dbErr := errors.New("timeout")
	svc := NewUserService(&memoryStore{listErr: dbErr}, nil, nil)

	_, err := svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, dbErr)
}

func TestRecordInvalid(t *testing.T) {
	rec := metrics.NewInMemory()
	svc := NewUserService(&memoryStore{}, rec, nil)

	svc.RecordInvalid()

	assert.Equal(t, uint64(1), rec.Snapshot().SubmissionsInvalid)
}
