package syringe

import (
	"reflect"

	"github.com/junioryono/syringe/internal/reflection"
)

// Dependency describes one constructor parameter of a class.
type Dependency struct {
	// Token is resolved to produce the argument.
	Token any

	// Type is the parameter type the resolved value is assigned to.
	Type reflect.Type

	// Position is the parameter index, or the field order inside a param object.
	Position int

	// Name is the param-object field name. Empty for plain parameters.
	Name string

	// Multiple requests every registration of Token as a slice.
	Multiple bool

	// Optional leaves the zero value when Token is not registered.
	Optional bool

	// Field is true for param-object fields.
	Field bool
}

// MetadataProvider lists the ordered dependencies of a class.
// The container applies Inject and InjectAll overrides on top of the result.
type MetadataProvider interface {
	Dependencies(class *Class) ([]Dependency, error)
}

// MetadataProviderFunc adapts a function to MetadataProvider.
type MetadataProviderFunc func(class *Class) ([]Dependency, error)

// Dependencies implements MetadataProvider.
func (f MetadataProviderFunc) Dependencies(class *Class) ([]Dependency, error) {
	return f(class)
}

// ReflectionMetadata returns the default MetadataProvider.
// It reads the constructor signature: each parameter is resolved by its type,
// param objects embedding In are expanded into their fields, and Lazy[T]
// parameters become deferred references to T.
func ReflectionMetadata() MetadataProvider {
	return reflectionMetadata{analyzer: analyzer}
}

type reflectionMetadata struct {
	analyzer *reflection.Analyzer
}

func (m reflectionMetadata) Dependencies(class *Class) ([]Dependency, error) {
	if class.constructor == nil {
		return nil, nil
	}

	info, err := m.analyzer.Analyze(class.constructor)
	if err != nil {
		return nil, err
	}

	deps := make([]Dependency, len(info.Parameters))
	for i, param := range info.Parameters {
		dep := Dependency{
			Token:    param.Type,
			Type:     param.Type,
			Position: i,
			Name:     param.Name,
			Multiple: param.All,
			Optional: param.Optional,
			Field:    info.IsParamObject,
		}

		switch {
		case param.Token != "":
			dep.Token = param.Token
		case param.All:
			dep.Token = param.Type.Elem()
		}

		if elem, ok := lazyElem(param.Type); ok && param.Token == "" {
			dep.Token = Delay(func() any { return elem })
		}

		deps[i] = dep
	}

	return deps, nil
}

// dependenciesOf asks the metadata provider and applies the class overrides.
func dependenciesOf(provider MetadataProvider, class *Class) ([]Dependency, error) {
	deps, err := provider.Dependencies(class)
	if err != nil {
		return nil, err
	}

	for i := range deps {
		if o, ok := class.overrides[deps[i].Position]; ok {
			deps[i].Token = o.token
			deps[i].Multiple = o.multiple
		}
	}

	return deps, nil
}
