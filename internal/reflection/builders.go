package reflection

import (
	"fmt"
	"reflect"
	"runtime/debug"
)

// PanicError is returned by Call when the constructor panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AssignError is returned when a value cannot be used for a parameter.
type AssignError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("%v is not assignable to %v", e.Actual, e.Expected)
}

// Call invokes constructor with already-built arguments. info must come from
// analyzing constructor; closures of one function literal share their analysis,
// so the function value is passed separately.
// A trailing non-nil error is returned as is. Panics are recovered into *PanicError.
func Call(constructor any, info *ConstructorInfo, args []reflect.Value) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	results := reflect.ValueOf(constructor).Call(args)

	if info.HasErrorReturn {
		if last := results[len(results)-1]; !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}

	return results[0].Interface(), nil
}

// Arguments turns per-parameter values into the reflect.Value slice passed to
// Call. For param objects the values are written into a fresh In struct.
func Arguments(info *ConstructorInfo, values []reflect.Value) []reflect.Value {
	if !info.IsParamObject {
		return values
	}

	obj := reflect.New(info.ParamObjectType).Elem()
	for i, param := range info.Parameters {
		if values[i].IsValid() {
			obj.Field(param.Index).Set(values[i])
		}
	}

	return []reflect.Value{obj}
}

// Assign converts a resolved value into a value of the target type.
// A nil value becomes the target's zero value.
func Assign(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(target), nil
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		if v.Type() == target {
			return v, nil
		}
		out := reflect.New(target).Elem()
		out.Set(v)
		return out, nil
	}

	return reflect.Value{}, &AssignError{Expected: target, Actual: v.Type()}
}

// AssignSlice builds a slice of the target type from resolved values.
func AssignSlice(values []any, target reflect.Type) (reflect.Value, error) {
	if target.Kind() != reflect.Slice {
		return reflect.Value{}, &AssignError{Expected: target, Actual: reflect.TypeOf(values)}
	}

	slice := reflect.MakeSlice(target, len(values), len(values))
	for i, value := range values {
		v, err := Assign(value, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		slice.Index(i).Set(v)
	}

	return slice, nil
}
