package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
)

// ErrCacheMiss возвращается мок-кэшем при отсутствии ключа
var ErrCacheMiss = errors.New("cache miss")

// MockLinkRepository implements repository.LinkRepository for testing.
// Порядок вставки сохраняется, сортировки стабильны.
type MockLinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	order  []string
	nextID int64
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 1,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if link.ID == "" {
		link.ID = "link-" + strconv.FormatInt(m.nextID, 10)
	}
	m.nextID++

	stored := *link
	m.links[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return nil
}

func (m *MockLinkRepository) GetByID(ctx context.Context, id string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[id]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) GetByShortenedURL(ctx context.Context, shortenedURL string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Первая запись в порядке вставки, как LIMIT 1 по created_at
	for _, id := range m.order {
		if m.links[id].ShortenedURL == shortenedURL {
			copied := *m.links[id]
			return &copied, nil
		}
	}
	return nil, repository.ErrLinkNotFound
}

func (m *MockLinkRepository) List(ctx context.Context) ([]models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]models.Link, 0, len(m.order))
	for _, id := range m.order {
		links = append(links, *m.links[id])
	}
	return links, nil
}

func (m *MockLinkRepository) ListByClicks(ctx context.Context) ([]models.Link, error) {
	links, _ := m.List(ctx)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].ClickCount > links[j].ClickCount
	})
	return links, nil
}

func (m *MockLinkRepository) IncrementClickCount(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[id]
	if !exists {
		return 0, repository.ErrLinkNotFound
	}
	link.ClickCount++
	return link.ClickCount, nil
}

func (m *MockLinkRepository) Update(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[link.ID]; !exists {
		return repository.ErrLinkNotFound
	}
	stored := *link
	m.links[stored.ID] = &stored
	return nil
}

func (m *MockLinkRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[id]; !exists {
		return repository.ErrLinkNotFound
	}
	delete(m.links, id)
	for i, stored := range m.order {
		if stored == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockLinkRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = make(map[string]*models.Link)
	m.order = nil
	m.nextID = 1
}

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	order  []string
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == "" {
		user.ID = "user-" + strconv.FormatInt(m.nextID, 10)
	}
	m.nextID++

	stored := *user
	m.users[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if m.users[id].Username == username {
			copied := *m.users[id]
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.order))
	for _, id := range m.order {
		users = append(users, *m.users[id])
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].FullName < users[j].FullName
	})
	return users, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return repository.ErrUserNotFound
	}
	stored := *user
	m.users[stored.ID] = &stored
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[id]; !exists {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	for i, stored := range m.order {
		if stored == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// MockCacheRepository implements repository.CacheRepository for testing
type MockCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]*models.Link

	SetCalls    int
	DeleteCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		entries: make(map[string]*models.Link),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, shortenedURL string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.entries[shortenedURL]
	if !exists {
		return nil, ErrCacheMiss
	}
	copied := *link
	return &copied, nil
}

func (m *MockCacheRepository) Set(ctx context.Context, shortenedURL string, link *models.Link, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls++
	stored := *link
	m.entries[shortenedURL] = &stored
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, shortenedURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls++
	delete(m.entries, shortenedURL)
	return nil
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.RWMutex
	clicks []*models.Click
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{}
}

func (m *MockClickRepository) RecordClick(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *click
	m.clicks = append(m.clicks, &stored)
	return nil
}

func (m *MockClickRepository) GetStats(ctx context.Context, linkID string) (*models.ClickStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &models.ClickStats{LinkID: linkID}
	seen := make(map[string]struct{})
	for _, click := range m.clicks {
		if click.LinkID != linkID {
			continue
		}
		stats.TotalClicks++
		if _, ok := seen[click.IPAddress]; !ok {
			seen[click.IPAddress] = struct{}{}
			stats.UniqueClicks++
		}
	}
	return stats, nil
}

func (m *MockClickRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clicks)
}
