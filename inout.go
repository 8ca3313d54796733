package syringe

import "go.uber.org/dig"

// In marks a parameter object. When a constructor takes a single struct that
// embeds In, every exported field of that struct becomes a dependency,
// resolved by the field type unless a tag says otherwise:
//   - `inject:"name"` resolves the string token "name"
//   - `inject:"-"` skips the field
//   - `optional:"true"` leaves the zero value when the token has no registration
//   - `all:"true"` fills a slice field with every registration of its element type
//
// Example:
//
//	type ServiceParams struct {
//	    syringe.In
//
//	    Database *sql.DB
//	    Logger   Logger         `optional:"true"`
//	    DSN      string         `inject:"dsn"`
//	    Handlers []http.Handler `all:"true"`
//	}
//
//	func NewService(params ServiceParams) *Service {
//	    return &Service{db: params.Database, logger: params.Logger}
//	}
//
// The In struct must be embedded anonymously:
//
//	type ServiceParams struct {
//	    syringe.In  // ✓ Correct - anonymous embedding
//	    // ...
//	}
//
//	type ServiceParams struct {
//	    In syringe.In  // ✗ Wrong - named field
//	    // ...
//	}
//
// Inject and InjectAll positions for param objects count the fields listed
// above, skipping ignored and unexported ones.
type In = dig.In
