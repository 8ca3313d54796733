package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/junioryono/syringe"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrConstructor = errors.New("constructor error")
	ErrDisposal    = errors.New("disposal error")
)

// Tokens shared by tests
var (
	LoggerToken   = syringe.NewSymbol("logger")
	DatabaseToken = syringe.NewSymbol("database")
)

// TestService is a basic test service with a unique ID per instance
type TestService struct {
	ID        string
	CreatedAt time.Time
	Data      string
}

// NewTestService creates a new test service
func NewTestService() *TestService {
	return &TestService{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Data:      "test",
	}
}

// TestLogger is a test logger interface
type TestLogger interface {
	Log(msg string)
	GetLogs() []string
}

// TestLoggerImpl implements TestLogger
type TestLoggerImpl struct {
	ID   string
	logs []string
	mu   sync.Mutex
}

func NewTestLogger() TestLogger {
	return &TestLoggerImpl{ID: uuid.NewString()}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.logs...)
}

// TestDatabase is a test database interface
type TestDatabase interface {
	Query(sql string) string
	Name() string
}

// TestDatabaseImpl implements TestDatabase
type TestDatabaseImpl struct {
	ID   string
	name string
}

func NewTestDatabase() TestDatabase {
	return &TestDatabaseImpl{ID: uuid.NewString(), name: "default"}
}

func NewTestDatabaseNamed(name string) TestDatabase {
	return &TestDatabaseImpl{ID: uuid.NewString(), name: name}
}

func (d *TestDatabaseImpl) Query(sql string) string {
	return d.name + ": " + sql
}

func (d *TestDatabaseImpl) Name() string {
	return d.name
}

// TestServiceWithDeps depends on a logger and a database
type TestServiceWithDeps struct {
	ID       string
	Logger   TestLogger
	Database TestDatabase
}

func NewTestServiceWithDeps(logger TestLogger, db TestDatabase) *TestServiceWithDeps {
	return &TestServiceWithDeps{ID: uuid.NewString(), Logger: logger, Database: db}
}

// TestDisposable records whether it was closed
type TestDisposable struct {
	ID       string
	closeErr error
	disposed atomic.Bool
	order    *[]string
	mu       *sync.Mutex
}

func NewTestDisposable() *TestDisposable {
	return &TestDisposable{ID: uuid.NewString()}
}

func NewTestDisposableWithError(err error) *TestDisposable {
	return &TestDisposable{ID: uuid.NewString(), closeErr: err}
}

// NewOrderedDisposable appends its ID to order when closed.
func NewOrderedDisposable(id string, order *[]string, mu *sync.Mutex) *TestDisposable {
	return &TestDisposable{ID: id, order: order, mu: mu}
}

func (s *TestDisposable) Close() error {
	s.disposed.Store(true)
	if s.order != nil {
		s.mu.Lock()
		*s.order = append(*s.order, s.ID)
		s.mu.Unlock()
	}
	return s.closeErr
}

func (s *TestDisposable) IsDisposed() bool {
	return s.disposed.Load()
}

// TestContextDisposable implements syringe.DisposableWithContext
type TestContextDisposable struct {
	ID       string
	disposed atomic.Bool
	gotCtx   atomic.Bool
}

func NewTestContextDisposable() *TestContextDisposable {
	return &TestContextDisposable{ID: uuid.NewString()}
}

func (s *TestContextDisposable) Close(ctx context.Context) error {
	s.gotCtx.Store(ctx != nil)
	s.disposed.Store(true)
	return nil
}

func (s *TestContextDisposable) IsDisposed() bool {
	return s.disposed.Load()
}

func (s *TestContextDisposable) WasDisposedWithContext() bool {
	return s.gotCtx.Load()
}

// TestHandler is implemented by several handlers registered under one token
type TestHandler interface {
	Handle() string
}

// TestHandlerImpl implements TestHandler
type TestHandlerImpl struct {
	name string
}

func NewTestHandler(name string) TestHandler {
	return &TestHandlerImpl{name: name}
}

func (h *TestHandlerImpl) Handle() string {
	return h.name
}

// CircularServiceA and CircularServiceB reference each other through Lazy handles
type CircularServiceA struct {
	ID string
	B  syringe.Lazy[*CircularServiceB]
}

type CircularServiceB struct {
	ID string
	A  syringe.Lazy[*CircularServiceA]
}

func NewCircularServiceA(b syringe.Lazy[*CircularServiceB]) *CircularServiceA {
	return &CircularServiceA{ID: uuid.NewString(), B: b}
}

func NewCircularServiceB(a syringe.Lazy[*CircularServiceA]) *CircularServiceB {
	return &CircularServiceB{ID: uuid.NewString(), A: a}
}
