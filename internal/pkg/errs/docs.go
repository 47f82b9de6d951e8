// Package errs holds the error vocabulary shared by the domain, the use
// cases and the adapters.
//
// Every error type unwraps to one sentinel (ErrValueIsRequired,
// ErrValueIsInvalid, ErrValueIsOutOfRange, ErrObjectNotFound,
// ErrAccessDenied) so transports can classify failures with errors.Is.
// When a cause is attached, errors.Is also matches anything in the cause
// chain, so callers can test for precise domain errors without losing the
// classification.
package errs
