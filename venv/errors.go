package venv

import "github.com/pkg/errors"

// ErrNotInstalled indicates a readiness check found no compiler installation to verify.
var ErrNotInstalled = errors.New("vyper is not installed")

// InstallationError describes a failed provisioning step. It retains the package manager's stderr verbatim so
// that diagnostics produced by the underlying tool are never lost or rewritten.
type InstallationError struct {
	// Stderr is the raw standard error text captured from the provisioning process.
	Stderr string

	// err is the underlying process execution error.
	err error
}

// NewInstallationError creates an InstallationError from captured stderr bytes and the underlying execution
// error.
func NewInstallationError(stderr []byte, err error) *InstallationError {
	return &InstallationError{
		Stderr: string(stderr),
		err:    err,
	}
}

// Error returns the error message string, implementing the `error` interface. The tool's own output is preferred
// when it produced any.
func (e *InstallationError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	if e.err != nil {
		return e.err.Error()
	}
	return "installation failed"
}

// Unwrap returns the underlying process execution error.
func (e *InstallationError) Unwrap() error {
	return e.err
}
