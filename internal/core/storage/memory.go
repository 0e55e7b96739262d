package storage

import (
	"context"
	"sort"
	"sync"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

// MemoryPostStore is an in-memory implementation of PostStore.
// Useful for testing and development. It mirrors the database's write-time
// behavior: interacciones_total and engagement_rate are computed once when
// the record is saved.
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts []*v1.PostRecord
}

// NewMemoryPostStore creates an empty in-memory post store.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{}
}

func (s *MemoryPostStore) SavePost(_ context.Context, post *v1.PostRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.posts {
		if existing.ID == post.ID {
			return ErrDuplicate
		}
	}

	post.TotalInteractions = post.Likes + post.Comments + post.Shares
	if post.Impressions > 0 {
		post.EngagementRate = float64(post.TotalInteractions) / float64(post.Impressions)
	} else {
		post.EngagementRate = 0
	}

	// Store a copy to prevent external modification.
	copied := *post
	s.posts = append(s.posts, &copied)
	return nil
}

func (s *MemoryPostStore) QueryPosts(_ context.Context, filter PostFilter) ([]*v1.PostRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*v1.PostRecord
	for _, p := range s.posts {
		if p.Username != filter.Username {
			continue
		}
		if filter.PostType != "" && p.PostType != filter.PostType {
			continue
		}
		if filter.RequirePostType && p.PostType == "" {
			continue
		}
		if filter.StartDate != nil && p.PublishDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && p.PublishDate.After(*filter.EndDate) {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}

	if filter.Limit > 0 {
		// Paginated reads come back newest first, like the SQL adapter.
		sort.SliceStable(matched, func(i, j int) bool {
			if !matched[i].PublishDate.Equal(matched[j].PublishDate) {
				return matched[i].PublishDate.After(matched[j].PublishDate)
			}
			return matched[i].PublishTime > matched[j].PublishTime
		})
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
		if len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
		return matched, nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].PublishDate.Before(matched[j].PublishDate)
	})
	return matched, nil
}

func (s *MemoryPostStore) CountPosts(_ context.Context, username string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, p := range s.posts {
		if p.Username == username {
			n++
		}
	}
	return n, nil
}

func (s *MemoryPostStore) ListPostTypes(_ context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.posts {
		if p.Username == username && p.PostType != "" {
			seen[p.PostType] = struct{}{}
		}
	}

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

// MemoryTaskStore is an in-memory implementation of TaskStore for tests.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks []*v1.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{}
}

func (s *MemoryTaskStore) ListTasks(_ context.Context, username string) ([]*v1.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*v1.Task
	for _, t := range s.tasks {
		if t.Username == username {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *MemoryTaskStore) SaveTask(_ context.Context, task *v1.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *task
	s.tasks = append(s.tasks, &copied)
	return nil
}

// MemoryUserStore is an in-memory UserStore for tests and local runs.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  []*v1.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1}
}

func (s *MemoryUserStore) CreateUser(_ context.Context, user *v1.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = s.nextID
	s.nextID++

	copied := *user
	s.users = append(s.users, &copied)
	return nil
}

func (s *MemoryUserStore) GetUserByEmail(_ context.Context, email string) (*v1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) GetUserByID(_ context.Context, id int64) (*v1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) ListUsers(_ context.Context) ([]*v1.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*v1.User, 0, len(s.users))
	for _, u := range s.users {
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryUserStore) UpdateUser(_ context.Context, user *v1.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.users {
		if existing.ID == user.ID {
			copied := *user
			copied.Username = existing.Username
			if copied.Email == "" {
				copied.Email = existing.Email
			}
			if copied.Role == "" {
				copied.Role = existing.Role
			}
			if copied.PasswordHash == "" {
				copied.PasswordHash = existing.PasswordHash
			}
			s.users[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryUserStore) DeleteUser(_ context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.users {
		if existing.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return existing.Username, nil
		}
	}
	return "", ErrNotFound
}

func (s *MemoryUserStore) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
