package pyast

import "github.com/cockroachdb/errors"

// Evaluation errors deliberately mirror CPython's diagnostic texts: issue
// strings built from them are displayed verbatim to users who typed Python.
var (
	ErrZeroDivision = errors.New("division by zero")
	ErrSyntax       = errors.New("invalid syntax")
)

func NewNameError(name string) error {
	return errors.Newf("name '%s' is not defined", name)
}

func NewModuleNotFoundError(module string) error {
	return errors.Newf("No module named '%s'", module)
}

func NewImportError(symbol, module string) error {
	return errors.Newf("cannot import name '%s' from '%s'", symbol, module)
}

func NewAttributeError(typeName, attr string) error {
	return errors.Newf("'%s' object has no attribute '%s'", typeName, attr)
}

func NewModuleAttributeError(module, attr string) error {
	return errors.Newf("module '%s' has no attribute '%s'", module, attr)
}

func NewNotCallableError(typeName string) error {
	return errors.Newf("'%s' object is not callable", typeName)
}

func NewUnsupportedOperandsError(op, leftType, rightType string) error {
	return errors.Newf("unsupported operand type(s) for %s: '%s' and '%s'", op, leftType, rightType)
}

func NewBadUnaryOperandError(op, typeName string) error {
	return errors.Newf("bad operand type for unary %s: '%s'", op, typeName)
}

func NewTypeError(format string, args ...any) error {
	return errors.Newf(format, args...)
}

func NewUnexpectedKwargError(callable, kwarg string) error {
	return errors.Newf("%s() got an unexpected keyword argument '%s'", callable, kwarg)
}

func NewValueError(format string, args ...any) error {
	return errors.Newf(format, args...)
}
