package cache

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const keyPrefix = "taskboard"

func newNamespace(client *redis.Client, ttl time.Duration, table string, logger *slog.Logger) namespace {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl < 0 {
		ttl = 0
	}
	return namespace{
		client: client,
		ttl:    ttl,
		prefix: keyPrefix + ":" + table,
		logger: logger.With(slog.String("component", "cache"), slog.String("table", table)),
	}
}

// CachedStatusStore is a store.TaskStatusStore that caches reads in Redis.
type CachedStatusStore struct {
	inner store.TaskStatusStore
	ns    namespace
}

// NewCachedStatusStore wraps inner with a Redis cache whose entries live for ttl.
func NewCachedStatusStore(
	inner store.TaskStatusStore,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedStatusStore {
	if inner == nil {
		panic("cache.NewCachedStatusStore: inner store is nil")
	}
	return &CachedStatusStore{inner: inner, ns: newNamespace(client, ttl, "task_statuses", logger)}
}

var _ store.TaskStatusStore = (*CachedStatusStore)(nil)

// WithTx returns a cached store that writes through tx. Writes made inside
// store.RunInTransaction invalidate the cache only once the transaction commits.
func (c *CachedStatusStore) WithTx(tx *sql.Tx) store.TaskStatusStore {
	return &CachedStatusStore{inner: c.inner.WithTx(tx), ns: c.ns}
}

func (c *CachedStatusStore) Create(ctx context.Context, status *domain.TaskStatus) error {
	if err := c.inner.Create(ctx, status); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}

func (c *CachedStatusStore) GetByID(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	return readThrough(ctx, c.ns, "id:"+strconv.FormatInt(id, 10), func() (*domain.TaskStatus, error) {
		return c.inner.GetByID(ctx, id)
	})
}

func (c *CachedStatusStore) GetByName(ctx context.Context, name string) (*domain.TaskStatus, error) {
	return readThrough(ctx, c.ns, "name:"+name, func() (*domain.TaskStatus, error) {
		return c.inner.GetByName(ctx, name)
	})
}

func (c *CachedStatusStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return c.inner.ExistsByName(ctx, name)
}

func (c *CachedStatusStore) List(ctx context.Context) ([]domain.TaskStatus, error) {
	return readThrough(ctx, c.ns, "all", func() ([]domain.TaskStatus, error) {
		return c.inner.List(ctx)
	})
}

func (c *CachedStatusStore) Update(ctx context.Context, status *domain.TaskStatus) error {
	if err := c.inner.Update(ctx, status); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}

func (c *CachedStatusStore) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}

// CachedPriorityStore is a store.TaskPriorityStore that caches reads in Redis.
type CachedPriorityStore struct {
	inner store.TaskPriorityStore
	ns    namespace
}

// NewCachedPriorityStore wraps inner with a Redis cache whose entries live for ttl.
func NewCachedPriorityStore(
	inner store.TaskPriorityStore,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedPriorityStore {
	if inner == nil {
		panic("cache.NewCachedPriorityStore: inner store is nil")
	}
	return &CachedPriorityStore{inner: inner, ns: newNamespace(client, ttl, "task_priorities", logger)}
}

var _ store.TaskPriorityStore = (*CachedPriorityStore)(nil)

// WithTx returns a cached store that writes through tx. Writes made inside
// store.RunInTransaction invalidate the cache only once the transaction commits.
func (c *CachedPriorityStore) WithTx(tx *sql.Tx) store.TaskPriorityStore {
	return &CachedPriorityStore{inner: c.inner.WithTx(tx), ns: c.ns}
}

func (c *CachedPriorityStore) Create(ctx context.Context, priority *domain.TaskPriority) error {
	if err := c.inner.Create(ctx, priority); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}

func (c *CachedPriorityStore) GetByID(ctx context.Context, id int64) (*domain.TaskPriority, error) {
	return readThrough(ctx, c.ns, "id:"+strconv.FormatInt(id, 10), func() (*domain.TaskPriority, error) {
		return c.inner.GetByID(ctx, id)
	})
}

func (c *CachedPriorityStore) GetByName(ctx context.Context, name string) (*domain.TaskPriority, error) {
	return readThrough(ctx, c.ns, "name:"+name, func() (*domain.TaskPriority, error) {
		return c.inner.GetByName(ctx, name)
	})
}

func (c *CachedPriorityStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	return c.inner.ExistsByName(ctx, name)
}

func (c *CachedPriorityStore) List(ctx context.Context) ([]domain.TaskPriority, error) {
	return readThrough(ctx, c.ns, "all", func() ([]domain.TaskPriority, error) {
		return c.inner.List(ctx)
	})
}

func (c *CachedPriorityStore) Update(ctx context.Context, priority *domain.TaskPriority) error {
	if err := c.inner.Update(ctx, priority); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}

func (c *CachedPriorityStore) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.ns.invalidateOnCommit(ctx)
	return nil
}
