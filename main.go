package main

import (
	"context"
	"fmt"
	"time"

	"github.com/relaygraph/godi/di"
)

// =============================================================================
// Domain interfaces
// =============================================================================

type Logger interface {
	Log(message string)
	LogError(message string)
}

type Config interface {
	DatabaseURL() string
	CacheEnabled() bool
}

type Database interface {
	Query(sql string) ([]map[string]any, error)
	Close() error
}

type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

type UserRepository interface {
	FindByID(id int) (*User, error)
	FindAll() ([]*User, error)
}

type UserService interface {
	GetUser(id int) (*User, error)
	ListUsers() ([]*User, error)
}

type User struct {
	ID    int
	Name  string
	Email string
}

// =============================================================================
// Implementations
// =============================================================================

type ConsoleLogger struct{ prefix string }

func NewConsoleLogger() Logger { return &ConsoleLogger{prefix: "[APP]"} }

func (l *ConsoleLogger) Log(message string) {
	fmt.Printf("%s %s INFO: %s\n", l.prefix, time.Now().Format("15:04:05"), message)
}

func (l *ConsoleLogger) LogError(message string) {
	fmt.Printf("%s %s ERROR: %s\n", l.prefix, time.Now().Format("15:04:05"), message)
}

type AppConfig struct {
	dbURL        string
	cacheEnabled bool
}

func NewAppConfig() Config {
	return &AppConfig{dbURL: "postgres://localhost:5432/myapp", cacheEnabled: true}
}

func (c *AppConfig) DatabaseURL() string  { return c.dbURL }
func (c *AppConfig) CacheEnabled() bool   { return c.cacheEnabled }

type PostgresDatabase struct {
	logger Logger
	config Config
}

func NewPostgresDatabase(logger Logger, config Config) Database {
	logger.Log(fmt.Sprintf("Connecting to database: %s", config.DatabaseURL()))
	return &PostgresDatabase{logger: logger, config: config}
}

func (db *PostgresDatabase) Query(sql string) ([]map[string]any, error) {
	db.logger.Log(fmt.Sprintf("Executing query: %s", sql))
	return []map[string]any{
		{"id": 1, "name": "Alice", "email": "alice@example.com"},
		{"id": 2, "name": "Bob", "email": "bob@example.com"},
	}, nil
}

func (db *PostgresDatabase) Close() error {
	db.logger.Log("Closing database connection")
	return nil
}

// forwardingDatabase implements Database by forwarding every call through a
// lazily-resolved real Database. It is the hand-written adapter
// di.PhantomOf needs for an interface-typed binding, since Go cannot
// synthesize a dynamic proxy for an arbitrary interface at runtime.
type forwardingDatabase struct {
	resolve func() (any, error)
}

func (f *forwardingDatabase) real() Database {
	v, err := f.resolve()
	if err != nil {
		panic(err)
	}
	return v.(Database)
}

func (f *forwardingDatabase) Query(sql string) ([]map[string]any, error) { return f.real().Query(sql) }
func (f *forwardingDatabase) Close() error                               { return f.real().Close() }

type InMemoryCache struct {
	logger Logger
	data   map[string]any
}

func NewInMemoryCache(logger Logger) Cache {
	logger.Log("Initializing in-memory cache")
	return &InMemoryCache{logger: logger, data: make(map[string]any)}
}

func (c *InMemoryCache) Get(key string) (any, bool) {
	val, ok := c.data[key]
	return val, ok
}

func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	c.data[key] = value
}

type DefaultUserRepository struct {
	db     Database
	cache  Cache
	logger Logger
}

func NewUserRepository(db Database, cache Cache, logger Logger) UserRepository {
	logger.Log("Creating user repository")
	return &DefaultUserRepository{db: db, cache: cache, logger: logger}
}

func (r *DefaultUserRepository) FindByID(id int) (*User, error) {
	cacheKey := fmt.Sprintf("user:%d", id)
	if cached, ok := r.cache.Get(cacheKey); ok {
		r.logger.Log(fmt.Sprintf("Cache hit for user %d", id))
		return cached.(*User), nil
	}

	r.logger.Log(fmt.Sprintf("Cache miss for user %d, querying database", id))
	results, err := r.db.Query(fmt.Sprintf("SELECT * FROM users WHERE id = %d", id))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("user %d not found", id)
	}

	user := &User{ID: results[0]["id"].(int), Name: results[0]["name"].(string), Email: results[0]["email"].(string)}
	r.cache.Set(cacheKey, user, 5*time.Minute)
	return user, nil
}

func (r *DefaultUserRepository) FindAll() ([]*User, error) {
	results, err := r.db.Query("SELECT * FROM users")
	if err != nil {
		return nil, err
	}
	users := make([]*User, len(results))
	for i, row := range results {
		users[i] = &User{ID: row["id"].(int), Name: row["name"].(string), Email: row["email"].(string)}
	}
	return users, nil
}

type DefaultUserService struct {
	repo   UserRepository
	logger Logger
}

func NewUserService(repo UserRepository, logger Logger) UserService {
	logger.Log("Creating user service")
	return &DefaultUserService{repo: repo, logger: logger}
}

func (s *DefaultUserService) GetUser(id int) (*User, error) {
	s.logger.Log(fmt.Sprintf("Getting user %d", id))
	return s.repo.FindByID(id)
}

func (s *DefaultUserService) ListUsers() ([]*User, error) {
	s.logger.Log("Listing all users")
	return s.repo.FindAll()
}

type RequestContext struct {
	RequestID string
	StartTime time.Time
}

// AnalyticsService depends on a dataset that is only available once an
// asynchronous warm-up completes, demonstrating DynamicModule.
type AnalyticsService interface {
	TopUsers() []string
}

type DefaultAnalyticsService struct {
	logger Logger
}

func NewAnalyticsService(logger Logger) AnalyticsService {
	logger.Log("Analytics dataset warmed up")
	return &DefaultAnalyticsService{logger: logger}
}

func (a *DefaultAnalyticsService) TopUsers() []string { return []string{"Alice", "Bob"} }

// =============================================================================
// Middleware
// =============================================================================

// activationLogger logs every resolved instance's key, demonstrating
// Middleware.OnActivated without altering the resolved value.
type activationLogger struct {
	di.BaseMiddleware
}

func (activationLogger) Name() string { return "activation-logger" }

func (activationLogger) OnActivated(entry *di.Entry, value any, s *di.Scope) (any, error) {
	fmt.Printf("  [middleware] activated %s in scope %q\n", entry.Key, s.ID())
	return value, nil
}

// =============================================================================
// Modules
// =============================================================================

func infraModule() di.StaticModule {
	return di.NewModule("infra", func(b di.Binder) error {
		b.BindFactory(di.TypeOf[Logger](), func(r di.Resolver, _ []string) (any, error) {
			return NewConsoleLogger(), nil
		}, di.WithLifecycle(di.Singleton))

		b.BindFactory(di.TypeOf[Database](), func(r di.Resolver, _ []string) (any, error) {
			logger, err := di.Resolve[Logger](r.(*di.Scope))
			if err != nil {
				return nil, err
			}
			cfg, err := di.Resolve[Config](r.(*di.Scope))
			if err != nil {
				return nil, err
			}
			return NewPostgresDatabase(logger, cfg), nil
		}, di.WithLifecycle(di.Singleton), di.WithPhantomAdapter(func(resolve func() (any, error)) any {
			return &forwardingDatabase{resolve: resolve}
		}))

		b.BindFactory(di.TypeOf[Cache](), func(r di.Resolver, _ []string) (any, error) {
			logger, err := di.Resolve[Logger](r.(*di.Scope))
			if err != nil {
				return nil, err
			}
			return NewInMemoryCache(logger), nil
		}, di.WithLifecycle(di.Singleton))

		return nil
	})
}

func appModule() di.StaticModule {
	return di.NewModule("app", func(b di.Binder) error {
		b.Include(infraModule())

		b.BindFactory(di.TypeOf[UserRepository](), func(r di.Resolver, _ []string) (any, error) {
			scope := r.(*di.Scope)
			db, err := di.Resolve[Database](scope)
			if err != nil {
				return nil, err
			}
			cache, err := di.Resolve[Cache](scope)
			if err != nil {
				return nil, err
			}
			logger, err := di.Resolve[Logger](scope)
			if err != nil {
				return nil, err
			}
			return NewUserRepository(db, cache, logger), nil
		}, di.WithLifecycle(di.Transient))

		b.BindFactory(di.TypeOf[UserService](), func(r di.Resolver, _ []string) (any, error) {
			scope := r.(*di.Scope)
			repo, err := di.Resolve[UserRepository](scope)
			if err != nil {
				return nil, err
			}
			logger, err := di.Resolve[Logger](scope)
			if err != nil {
				return nil, err
			}
			return NewUserService(repo, logger), nil
		}, di.WithLifecycle(di.Transient))

		return nil
	})
}

// analyticsModule loads its backing dataset asynchronously; its
// AnalyticsService binding fails with ErrDynamicModuleNotLoaded until the
// load completes.
func analyticsModule() di.DynamicModule {
	return di.NewDynamicModule("analytics", func(ctx context.Context) (any, error) {
		select {
		case <-time.After(20 * time.Millisecond):
			return nil, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, func(b di.Binder) error {
		b.BindFactory(di.TypeOf[AnalyticsService](), func(r di.Resolver, _ []string) (any, error) {
			logger, err := di.Resolve[Logger](r.(*di.Scope))
			if err != nil {
				return nil, err
			}
			return NewAnalyticsService(logger), nil
		}, di.WithLifecycle(di.Lazy))
		return nil
	})
}

func main() {
	fmt.Println("godi — sealed, middleware-extensible dependency injection")
	fmt.Println()

	analytics := analyticsModule()

	b := di.NewBuilder()
	b.BindInstance(di.TypeOf[Config](), NewAppConfig())
	b.Include(appModule())
	b.Include(analytics)
	b.Use(activationLogger{})

	b.BindFactory(di.TypeOf[*RequestContext](), func(r di.Resolver, _ []string) (any, error) {
		return &RequestContext{RequestID: fmt.Sprintf("req-%d", time.Now().UnixNano()), StartTime: time.Now()}, nil
	}, di.WithLifecycle(di.Scope))

	container, err := b.Build()
	if err != nil {
		panic(err)
	}
	defer container.Dispose()

	fmt.Println("\n─── Resolving UserService ───")
	service := di.MustResolve[UserService](container)
	users, err := service.ListUsers()
	if err != nil {
		panic(err)
	}
	for _, u := range users {
		fmt.Printf("  -> User: %s (%s)\n", u.Name, u.Email)
	}

	fmt.Println("\n─── Phantom resolution ───")
	db, err := di.PhantomOf[Database](container, di.TypeOf[Database]())
	if err != nil {
		panic(err)
	}
	fmt.Printf("  Database singleton is already materialized, so PhantomOf returns the real instance: %T\n", db)
	_, _ = db.Query("SELECT 1")

	fmt.Println("\n─── Scoped resolution across two request scopes ───")
	req1, _ := container.OpenScope("request-1")
	req2, _ := container.OpenScope("request-2")
	ctx1a, _ := di.Resolve[*RequestContext](req1)
	ctx1b, _ := di.Resolve[*RequestContext](req1)
	ctx2, _ := di.Resolve[*RequestContext](req2)
	fmt.Printf("  request-1 same instance across two Get calls: %v\n", ctx1a == ctx1b)
	fmt.Printf("  request-1 differs from request-2: %v\n", ctx1a != ctx2)
	req1.Dispose()
	req2.Dispose()

	fmt.Println("\n─── Provider (deferred resolution) ───")
	provide, err := di.ProviderOfT[UserService](container)
	if err != nil {
		panic(err)
	}
	again, _ := provide()
	fmt.Printf("  provider re-invocation returned a %T\n", again)

	fmt.Println("\n─── Dynamic module (async-loaded analytics) ───")
	_, err = di.Resolve[AnalyticsService](container)
	fmt.Printf("  before load: %v\n", err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	if _, err := analytics.LoadAsync(ctx).Wait(ctx); err != nil {
		panic(err)
	}
	cancel()
	analyticsSvc, err := di.Resolve[AnalyticsService](container)
	if err != nil {
		panic(err)
	}
	fmt.Printf("  after load, top users: %v\n", analyticsSvc.TopUsers())

	fmt.Println("\n─── Demo complete ───")
}
