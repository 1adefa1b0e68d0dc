// Package must handles errors in command code via panic.
package must

import "fmt"

// Must panics if err != nil.
// If format is provided, the panic value wraps err with fmt.Errorf(format+": %w").
func Must(err error, format ...any) {
	if err == nil {
		return
	}
	if len(format) > 0 {
		err = fmt.Errorf(format[0].(string)+": %w", append(format[1:], err)...)
	}
	panic(err)
}

// Must1 calls Must(err), then returns v.
func Must1[T any](v T, err error) T { Must(err); return v }
