package exitcodes

const (
	// ================================
	// Platform-universal exit codes
	// ================================

	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// ================================
	// Application-specific exit codes
	// ================================
	// Note: Despite not being standardized, exit codes 2-5 are often used for common use cases, so we avoid them.

	// ExitCodeHandledError indicates an error occurred which was already reported to the user, so the top level
	// should not print it again.
	ExitCodeHandledError = 6

	// ExitCodeCompilationFailed indicates the compiler rejected at least one compilation target.
	ExitCodeCompilationFailed = 7
)
