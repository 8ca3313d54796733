// Package reflection analyzes constructor functions: their parameters, their
// produced type, and whether they report an error. It is the default source of
// constructor dependency metadata for the container.
package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"
)

var (
	inType  = reflect.TypeOf(dig.In{})
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

var (
	ErrConstructorNil     = errors.New("constructor cannot be nil")
	ErrNotAFunction       = errors.New("constructor must be a function")
	ErrNoReturn           = errors.New("constructor must return a value")
	ErrTooManyReturns     = errors.New("constructor must return (T) or (T, error)")
	ErrVariadicNotAllowed = errors.New("variadic constructors are not supported")
)

// Analyzer performs reflection-based analysis of constructors.
// It caches analysis results by function pointer.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[uintptr]*ConstructorInfo
}

// ConstructorInfo contains analyzed information about a constructor function.
type ConstructorInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	Parameters     []ParameterInfo
	Result         reflect.Type
	HasErrorReturn bool

	// IsParamObject is true when the constructor takes a single struct that
	// embeds dig.In. Parameters then describe that struct's fields.
	IsParamObject   bool
	ParamObjectType reflect.Type
}

// ParameterInfo describes a constructor parameter or a field of an In struct.
type ParameterInfo struct {
	Type     reflect.Type
	Name     string // Field name for In structs
	Index    int    // Parameter position or field index
	Token    string // From inject:"name"
	Optional bool   // From optional:"true"
	All      bool   // From all:"true"
}

// TagInfo contains parsed struct tag information.
type TagInfo struct {
	Token    string
	Optional bool
	All      bool
	Ignore   bool
}

// New creates a new Analyzer.
func New() *Analyzer {
	return &Analyzer{
		cache: make(map[uintptr]*ConstructorInfo),
	}
}

// Analyze analyzes a constructor function and extracts its parameters and result.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	if val.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %T", ErrNotAFunction, constructor)
	}

	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	cacheKey := val.Pointer()

	a.mu.RLock()
	if cached, ok := a.cache[cacheKey]; ok && cached.Type == val.Type() {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info := &ConstructorInfo{
		Type:  val.Type(),
		Value: val,
	}

	if info.Type.IsVariadic() {
		return nil, ErrVariadicNotAllowed
	}

	if err := a.analyzeReturns(info); err != nil {
		return nil, err
	}

	if err := a.analyzeParameters(info); err != nil {
		return nil, fmt.Errorf("failed to analyze parameters: %w", err)
	}

	a.mu.Lock()
	a.cache[cacheKey] = info
	a.mu.Unlock()

	return info, nil
}

// analyzeParameters analyzes function parameters or In struct fields.
func (a *Analyzer) analyzeParameters(info *ConstructorInfo) error {
	fnType := info.Type

	if fnType.NumIn() == 1 && IsParamObject(fnType.In(0)) {
		info.IsParamObject = true
		info.ParamObjectType = fnType.In(0)
		return a.analyzeParamObject(info, fnType.In(0))
	}

	info.Parameters = make([]ParameterInfo, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		info.Parameters[i] = ParameterInfo{
			Type:  fnType.In(i),
			Index: i,
		}
	}

	return nil
}

// analyzeParamObject analyzes an In struct's fields.
func (a *Analyzer) analyzeParamObject(info *ConstructorInfo, structType reflect.Type) error {
	params := make([]ParameterInfo, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Anonymous && dig.IsIn(field.Type) {
			continue
		}

		if !field.IsExported() {
			continue
		}

		tagInfo := ParseFieldTags(field.Tag)
		if tagInfo.Ignore {
			continue
		}

		if tagInfo.All && field.Type.Kind() != reflect.Slice {
			return fmt.Errorf("field %s is tagged all:\"true\" but is %v, not a slice", field.Name, field.Type)
		}

		params = append(params, ParameterInfo{
			Type:     field.Type,
			Name:     field.Name,
			Index:    i,
			Token:    tagInfo.Token,
			Optional: tagInfo.Optional,
			All:      tagInfo.All,
		})
	}

	info.Parameters = params
	return nil
}

// analyzeReturns requires (T) or (T, error).
func (a *Analyzer) analyzeReturns(info *ConstructorInfo) error {
	fnType := info.Type

	switch fnType.NumOut() {
	case 0:
		return ErrNoReturn
	case 1:
		if fnType.Out(0) == errType {
			return ErrNoReturn
		}
	case 2:
		if fnType.Out(1) != errType {
			return ErrTooManyReturns
		}
		info.HasErrorReturn = true
	default:
		return ErrTooManyReturns
	}

	info.Result = fnType.Out(0)
	return nil
}

// Clear clears the analysis cache.
func (a *Analyzer) Clear() {
	a.mu.Lock()
	a.cache = make(map[uintptr]*ConstructorInfo)
	a.mu.Unlock()
}

// CacheSize returns the number of cached analyses.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// ParseFieldTags parses struct field tags for injection annotations.
func ParseFieldTags(tag reflect.StructTag) TagInfo {
	info := TagInfo{}

	if val, ok := tag.Lookup("inject"); ok {
		if val == "-" {
			info.Ignore = true
		} else {
			info.Token = val
		}
	}

	if val, ok := tag.Lookup("optional"); ok {
		info.Optional = val == "true"
	}

	if val, ok := tag.Lookup("all"); ok {
		info.All = val == "true"
	}

	return info
}

// IsParamObject reports whether t is a struct embedding dig.In.
func IsParamObject(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Struct && t != inType && dig.IsIn(t)
}
