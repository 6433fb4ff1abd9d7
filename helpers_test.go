package grove

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ARTM2000/grove/event"
	"github.com/stretchr/testify/require"
)

// Shared test types and constructors used across test files.

// mustProvide fails the test if registration fails.
func mustProvide(t *testing.T, c Container, constructors ...any) {
	t.Helper()
	require.NoError(t, c.ProvideAll(constructors...))
}

type testLogger struct{ Prefix string }
type testConfig struct{ DSN string }

type testDatabase struct {
	Config *testConfig
	Logger *testLogger
}

type testUserRepo struct {
	DB     *testDatabase
	Logger *testLogger
}

type testUserService struct {
	Repo   *testUserRepo
	Logger *testLogger
}

func newTestLogger() *testLogger { return &testLogger{Prefix: "app"} }
func newTestConfig() *testConfig { return &testConfig{DSN: "postgres://localhost"} }

func newTestDatabase(cfg *testConfig, log *testLogger) *testDatabase {
	return &testDatabase{Config: cfg, Logger: log}
}

func newTestUserRepo(db *testDatabase, log *testLogger) *testUserRepo {
	return &testUserRepo{DB: db, Logger: log}
}

func newTestUserService(repo *testUserRepo, log *testLogger) *testUserService {
	return &testUserService{Repo: repo, Logger: log}
}

// testStore is the abstraction used by binding and decorator tests.
type testStore interface {
	Get(key string) string
}

type memStore struct{ Logger *testLogger }

func (s *memStore) Get(key string) string { return "mem:" + key }

func newMemStore(log *testLogger) *memStore { return &memStore{Logger: log} }

type diskStore struct{}

func (s *diskStore) Get(key string) string { return "disk:" + key }

// prefixStore and upperStore decorate a testStore.
type prefixStore struct{ next testStore }

func (s *prefixStore) Get(key string) string { return "prefix(" + s.next.Get(key) + ")" }

func newPrefixStore(next testStore) *prefixStore { return &prefixStore{next: next} }

type upperStore struct{ next testStore }

func (s *upperStore) Get(key string) string { return strings.ToUpper(s.next.Get(key)) }

func newUpperStore(next testStore) *upperStore { return &upperStore{next: next} }

type needsStore struct{ Store testStore }

func newNeedsStore(s testStore) *needsStore { return &needsStore{Store: s} }

type testCircA struct{ B *testCircB }
type testCircB struct{ A *testCircA }

func newTestCircA(b *testCircB) *testCircA { return &testCircA{B: b} }
func newTestCircB(a *testCircA) *testCircB { return &testCircB{A: a} }

// testClosable is a singleton that implements io.Closer for shutdown tests.
type testClosable struct {
	Name   string
	Closed bool
	Order  *[]string // shared slice to record close order
}

func (c *testClosable) Close() error {
	c.Closed = true
	if c.Order != nil {
		*c.Order = append(*c.Order, c.Name)
	}
	return nil
}

// testFailCloser implements io.Closer but returns an error.
type testFailCloser struct{ msg string }

func (f *testFailCloser) Close() error {
	return errors.New(f.msg)
}

// spyLogger records container events.
type spyLogger struct {
	mu     sync.Mutex
	events []event.Event
}

func (l *spyLogger) LogEvent(e event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *spyLogger) Events() []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Event(nil), l.events...)
}
