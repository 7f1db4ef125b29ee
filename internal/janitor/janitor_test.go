package janitor

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"blog-server/internal/config"
	"blog-server/internal/model"
	"blog-server/internal/repository"
	"blog-server/internal/storage"
	"blog-server/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memBlobStore struct {
	mu        sync.Mutex
	objects   map[string]time.Time
	deleteErr map[string]error
	listErr   error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string]time.Time{}, deleteErr: map[string]error{}}
}

func (m *memBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	_, _ = io.Copy(io.Discard, r)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = time.Now()
	return nil
}

func (m *memBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[key]; err != nil {
		return err
	}
	delete(m.objects, key)
	return nil
}

func (m *memBlobStore) List(_ context.Context, prefix string) ([]storage.BlobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []storage.BlobInfo
	for k, mod := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.BlobInfo{Key: k, ModTime: mod})
		}
	}
	return out, nil
}

func (m *memBlobStore) URL(key string) string { return "/uploads/" + key }

func (m *memBlobStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func newRepos(gdb *gorm.DB) *repository.Repositories {
	return repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewPostRepository(gdb),
		repository.NewSettingRepository(gdb),
		repository.NewSystemRepository(gdb),
	)
}

func seed(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	u := model.User{Username: "alice", Password: "x", Avatar: "avatars/keep.png"}
	require.NoError(t, gdb.Create(&u).Error)
	p := model.Post{Title: "t", Content: "c", UserID: u.ID, Image: model.BlobImage("posts/keep.png")}
	require.NoError(t, gdb.Create(&p).Error)
}

func TestRunOnce_DeletesOldOrphansOnly(t *testing.T) {
	gdb := testutils.SetupDB(t)
	seed(t, gdb)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-2 * time.Hour)

	blobs := newMemBlobStore()
	blobs.objects["posts/keep.png"] = old
	blobs.objects["avatars/keep.png"] = old
	blobs.objects["posts/orphan.png"] = old
	blobs.objects["avatars/orphan.png"] = old
	blobs.objects["posts/fresh.png"] = now.Add(-time.Minute)
	blobs.objects["other/ignored.png"] = old

	j := New(blobs, newRepos(gdb), config.JanitorConfig{GraceMinutes: 60, Schedule: "@every 1h"})
	j.now = func() time.Time { return now }

	report, err := j.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Scanned: 5, Referenced: 2, Orphans: 3, Deleted: 2, Skipped: 1}, report)
	assert.Equal(t, []string{"avatars/keep.png", "other/ignored.png", "posts/fresh.png", "posts/keep.png"}, blobs.keys())
}

func TestRunOnce_DeleteFailureCounted(t *testing.T) {
	gdb := testutils.SetupDB(t)

	old := time.Now().Add(-24 * time.Hour)
	blobs := newMemBlobStore()
	blobs.objects["posts/a.png"] = old
	blobs.objects["posts/b.png"] = old
	blobs.deleteErr["posts/a.png"] = errors.New("permission denied")

	j := New(blobs, newRepos(gdb), config.JanitorConfig{GraceMinutes: 0})

	report, err := j.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []string{"posts/a.png"}, blobs.keys())
}

func TestRunOnce_ListError(t *testing.T) {
	gdb := testutils.SetupDB(t)

	blobs := newMemBlobStore()
	blobs.listErr = errors.New("bucket unavailable")

	j := New(blobs, newRepos(gdb), config.JanitorConfig{})
	_, err := j.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, blobs.listErr)
}

func TestRunOnce_RejectsConcurrentRun(t *testing.T) {
	gdb := testutils.SetupDB(t)
	j := New(newMemBlobStore(), newRepos(gdb), config.JanitorConfig{})

	j.running.Lock()
	_, err := j.RunOnce(context.Background())
	j.running.Unlock()
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestStart_InvalidSchedule(t *testing.T) {
	gdb := testutils.SetupDB(t)

	j := New(newMemBlobStore(), newRepos(gdb), config.JanitorConfig{Schedule: "not a schedule"})
	require.Error(t, j.Start())

	j = New(newMemBlobStore(), newRepos(gdb), config.JanitorConfig{})
	require.Error(t, j.Start())
}

func TestStartStop(t *testing.T) {
	gdb := testutils.SetupDB(t)

	j := New(newMemBlobStore(), newRepos(gdb), config.JanitorConfig{Schedule: "@every 1h"})
	require.NoError(t, j.Start())
	j.Stop()
}
