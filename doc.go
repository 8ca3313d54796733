// Package syringe provides a token-based inversion-of-control container for Go.
//
// A container maps tokens to providers and builds object graphs on demand.
// Tokens are compared with ==: a reflect.Type (see TypeOf), a string, a
// *Symbol, a *Class or a *DelayedConstructor.
//
// # Basic Usage
//
// Register providers and resolve values:
//
//	c := syringe.New()
//
//	c.RegisterSingleton(NewDatabase)
//	c.Register(syringe.TypeOf[UserRepository](), NewPostgresUserRepository)
//	c.RegisterInstance("dsn", "postgres://localhost/app")
//
//	repo, err := syringe.Resolve[UserRepository](c)
//
// # Providers
//
// Four providers describe how a value is produced:
//   - ValueProvider returns a pre-built value
//   - FactoryProvider calls a function with the resolving container
//   - TokenProvider resolves another token on the same container
//   - ClassProvider calls a constructor after resolving its parameters
//
// Constructor functions return (T) or (T, error). Every parameter is resolved
// by its type unless an Inject or InjectAll option names another token:
//
//	c.Register(syringe.TypeOf[*Mailer](), syringe.MustClass(NewMailer,
//	    syringe.Inject(0, "smtp-host"),
//	    syringe.InjectAll(1, syringe.TypeOf[Filter]()),
//	))
//
// Struct types and types declared with Injectable are resolved without a
// registration, as Transient values.
//
// # Lifecycles
//
// Class and token registrations take a lifecycle with WithLifecycle:
//   - Transient: a new value on every resolution
//   - Singleton: one value per registration, shared by descendant containers
//   - ResolutionScoped: one value per top-level Resolve or ResolveAll call
//   - ContainerScoped: one value per resolving container
//
// # Child Containers
//
// CreateChildContainer returns a container that looks up registrations in
// itself and then in its ancestors. It shares Singleton instances with the
// container that owns the registration and keeps its own ContainerScoped
// instances, which makes it a natural per-request scope:
//
//	child := c.CreateChildContainer()
//	defer child.Dispose(ctx)
//
// # Circular Dependencies
//
// Delay wraps a constructor token that is not available yet. Resolving it
// yields a *Deferred handle that builds the target on first use. Constructor
// parameters of type Lazy[T] receive such a handle for T:
//
//	func NewA(b syringe.Lazy[*B]) *A { return &A{b: b} }
//	func NewB(a syringe.Lazy[*A]) *B { return &B{a: a} }
//
// A constructor that depends on its own token without Lazy or Delay recurses
// until the Go runtime aborts with a stack overflow.
//
// # Error Handling
//
// Resolution returns typed errors:
//   - NotRegisteredError: the token has no registration and is not constructible
//   - DependencyResolutionError: a constructor parameter failed, with the cause indented
//   - ConstructorError and ConstructorPanicError: a constructor or factory failed
//   - TokenCycleError: token aliases form a loop
//
// Invalid registrations are programmer errors: Register and its variants
// panic with a *RegistrationError.
//
// # Thread Safety
//
// Containers are safe for concurrent use. Providers run without holding
// container locks. Two goroutines that resolve a Singleton for the first time
// may both build it; one instance wins and both receive it.
package syringe
