package legacy

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat se retorna cuando una entrada no cumple su esquema
	ErrFormat = errors.New("invalid format")
	// ErrCheck se retorna cuando el cheque no es consistente
	ErrCheck = errors.New("invalid check")
)

// FormatError indica el esquema que la entrada no cumplió
type FormatError struct {
	Message string
	Schema  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Schema, e.Message)
}

// Is permite comparar con errors.Is(err, ErrFormat)
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// CheckError describe una inconsistencia del cheque
type CheckError struct {
	Message string
}

func (e *CheckError) Error() string {
	return e.Message
}

// Is permite comparar con errors.Is(err, ErrCheck)
func (e *CheckError) Is(target error) bool {
	return target == ErrCheck
}
