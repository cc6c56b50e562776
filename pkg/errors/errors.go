// Package errors defines the error kinds and error types used across carprep.
//
// Every failure raised by the preprocessing stack is one of the typed errors
// below, or is wrapped by TransformationError at the orchestration boundary.
// The sentinel kinds (ErrMissingColumn, ErrNotFitted, ErrIO, ErrSerialization)
// can be matched through any number of wrapping layers with Is:
//
//	_, _, _, err := dt.InitiateDataTransformation(train, test)
//	if errors.Is(err, errors.ErrMissingColumn) {
//		// a declared column was absent
//	}
//
// Stack traces are captured by github.com/cockroachdb/errors and are printed
// with the %+v verb.
package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

const prefix = "carprep"

// Sentinel error kinds.
var (
	// ErrEmptyData is returned when an input has no rows or no columns.
	ErrEmptyData = crdb.New("empty data")
	// ErrNotImplemented is returned for unsupported options.
	ErrNotImplemented = crdb.New("not implemented")
	// ErrMissingColumn is the kind of MissingColumnError.
	ErrMissingColumn = crdb.New("missing column")
	// ErrNotFitted is the kind of NotFittedError.
	ErrNotFitted = crdb.New("not fitted")
	// ErrIO is the kind of IOError.
	ErrIO = crdb.New("i/o failure")
	// ErrSerialization is the kind of SerializationError.
	ErrSerialization = crdb.New("serialization failure")
)

// kinds is the lookup order used by Kind.
var kinds = []error{
	ErrMissingColumn,
	ErrNotFitted,
	ErrSerialization,
	ErrIO,
	ErrEmptyData,
	ErrNotImplemented,
}

// Re-exported helpers from cockroachdb/errors.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// ModelError is a generic failure inside an estimator operation.
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

// NewModelError creates a ModelError with a stack attached to the cause.
func NewModelError(op, kind string, err error) *ModelError {
	return &ModelError{Op: op, Kind: kind, Err: err}
}

func (e *ModelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// DimensionError reports a shape mismatch along Axis (0 = rows, 1 = columns).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: %s: dimension mismatch on %s: expected %d, got %d",
		prefix, e.Op, axis, e.Expected, e.Got)
}

// NotFittedError is returned when an estimator is used before Fit.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s: this instance is not fitted yet, call Fit before %s",
		prefix, e.ModelName, e.Method)
}

// Is reports whether target is ErrNotFitted.
func (e *NotFittedError) Is(target error) bool { return target == ErrNotFitted }

// ValueError reports an invalid input value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// ValidationError reports an invalid parameter.
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(paramName, reason string, value interface{}) *ValidationError {
	return &ValidationError{ParamName: paramName, Reason: reason, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s (%v): %s", prefix, e.ParamName, e.Value, e.Reason)
}

// MissingColumnError is returned when a declared column is absent from a table.
type MissingColumnError struct {
	Op     string
	Column string
}

// NewMissingColumnError creates a MissingColumnError.
func NewMissingColumnError(op, column string) *MissingColumnError {
	return &MissingColumnError{Op: op, Column: column}
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s: column %q not found", prefix, e.Op, e.Column)
}

// Is reports whether target is ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// IOError wraps a file read or write failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError creates an IOError. The cause gets a stack trace attached.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: crdb.WithStackDepth(err, 1)}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }

// SerializationError wraps an encode or decode failure of a persisted object.
type SerializationError struct {
	Op  string
	Err error
}

// NewSerializationError creates a SerializationError.
func NewSerializationError(op string, err error) *SerializationError {
	return &SerializationError{Op: op, Err: crdb.WithStackDepth(err, 1)}
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", prefix, e.Op, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSerialization.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// TransformationError is the uniform error returned by the orchestration
// layer. Op is the location marker, Step names the failing stage.
type TransformationError struct {
	Op   string
	Step string
	Err  error
}

// NewTransformationError wraps err with the location op and failing step.
// A stack trace is recorded at the call site.
func NewTransformationError(op, step string, err error) *TransformationError {
	return &TransformationError{Op: op, Step: step, Err: crdb.WithStackDepth(err, 1)}
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("%s: %s: %s failed: %v", prefix, e.Op, e.Step, e.Err)
}

func (e *TransformationError) Unwrap() error { return e.Err }

// Format renders the cause with its stack trace under %+v.
func (e *TransformationError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %s: %s failed: %+v", prefix, e.Op, e.Step, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Kind returns the first sentinel kind found in the cause chain, or nil.
func (e *TransformationError) Kind() error {
	return KindOf(e.Err)
}

// KindOf returns the sentinel kind of err, or nil when err matches none.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if crdb.Is(err, k) {
			return k
		}
	}
	return nil
}

// Recover converts a panic into an error stored in *err. It must be deferred
// directly:
//
//	defer errors.Recover(&err, "OneHotEncoder.Fit")
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = crdb.Wrapf(e, "%s: %s: panic", prefix, op)
			return
		}
		*err = crdb.Newf("%s: %s: panic: %v", prefix, op, r)
	}
}
