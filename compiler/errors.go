package compiler

// CompilerError describes a failed compiler invocation. It retains the compiler's stderr verbatim so that
// diagnostics produced by the underlying tool are never lost or rewritten.
type CompilerError struct {
	// Stderr is the raw standard error text captured from the compiler process.
	Stderr string

	// err is the underlying process execution error (e.g. non-zero exit status, or a spawn failure).
	err error
}

// NewCompilerError creates a CompilerError from captured stderr bytes and the underlying execution error.
func NewCompilerError(stderr []byte, err error) *CompilerError {
	return &CompilerError{
		Stderr: string(stderr),
		err:    err,
	}
}

// Error returns the error message string, implementing the `error` interface. The compiler's own output is
// preferred when it produced any.
func (e *CompilerError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.err != nil {
		return e.err.Error()
	}
	return "compiler invocation failed"
}

// Unwrap returns the underlying process execution error.
func (e *CompilerError) Unwrap() error {
	return e.err
}
