package di_test

import (
	"fmt"

	"github.com/relaygraph/godi/di"
)

// ExampleConfigLogger is an example interface for logging.
type ExampleConfigLogger interface {
	Log(message string)
}

// ExampleConsoleLogger is a simple logger that prints to console.
type ExampleConsoleLogger struct{}

func (l *ExampleConsoleLogger) Log(message string) {
	fmt.Println("[LOG]", message)
}

// ExampleUserService is an example service interface.
type ExampleUserService interface {
	GetUser(id int) string
}

// ExampleDefaultUserService is the default implementation of ExampleUserService.
type ExampleDefaultUserService struct {
	logger ExampleConfigLogger
}

func (s *ExampleDefaultUserService) GetUser(id int) string {
	s.logger.Log(fmt.Sprintf("fetching user %d", id))
	return fmt.Sprintf("User-%d", id)
}

// Example demonstrates basic binding and resolution.
func Example() {
	b := di.NewBuilder()

	di.Bind[ExampleConfigLogger](b, func(r di.Resolver) (ExampleConfigLogger, error) {
		return &ExampleConsoleLogger{}, nil
	}, di.WithLifecycle(di.Singleton))

	di.Bind[ExampleUserService](b, func(r di.Resolver) (ExampleUserService, error) {
		logger, err := di.Resolve[ExampleConfigLogger](r.(*di.Scope))
		if err != nil {
			return nil, err
		}
		return &ExampleDefaultUserService{logger: logger}, nil
	})

	container, err := b.Build()
	if err != nil {
		panic(err)
	}

	service := di.MustResolve[ExampleUserService](container)
	fmt.Println(service.GetUser(42))

	// Output:
	// [LOG] fetching user 42
	// User-42
}

// Example_scopes demonstrates per-request scope isolation.
func Example_scopes() {
	b := di.NewBuilder()
	requestCount := 0
	di.Bind[*int](b, func(r di.Resolver) (*int, error) {
		requestCount++
		n := requestCount
		return &n, nil
	}, di.WithLifecycle(di.Scope))

	container, err := b.Build()
	if err != nil {
		panic(err)
	}

	req1, _ := container.OpenScope("req-1")
	first, _ := di.Resolve[*int](req1)
	second, _ := di.Resolve[*int](req1)
	fmt.Println("same instance within a scope:", first == second)

	req2, _ := container.OpenScope("req-2")
	third, _ := di.Resolve[*int](req2)
	fmt.Println("distinct instance in a sibling scope:", *third != *first)

	// Output:
	// same instance within a scope: true
	// distinct instance in a sibling scope: true
}
