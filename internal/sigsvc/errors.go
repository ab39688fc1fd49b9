package sigsvc

import "errors"

// Validation failures for WAIT/SET_* commands (spec.md §7). None of these
// ever cross the service boundary as a returned error — they select which
// reply code (FAILED, plus a logged reason) the dispatcher sends back. Each
// names the reason written to the debug log when a command is rejected;
// the reply itself carries only FAILED.
var (
	ErrBadTask               = errors.New("sigsvc: task does not exist or is busy mmapping")
	ErrBadThread             = errors.New("sigsvc: thread does not exist, out of range, or not owned by task")
	ErrAlreadyBlocking       = errors.New("sigsvc: thread already has a blocking signal")
	ErrBadTimeoutForBlocking = errors.New("sigsvc: REPEATING timeout is not valid for a blocking wait")
	ErrInterruptRegistration = errors.New("sigsvc: interrupt helper rejected registration")
	ErrBadAddress            = errors.New("sigsvc: handler_ep/stack address failed validation")
	ErrTaskStateForHandler   = errors.New("sigsvc: task is not in a state that accepts a signal handler")
	ErrThreadStateForStack   = errors.New("sigsvc: thread is not in a state that accepts a signal stack")
	ErrRateLimited           = errors.New("sigsvc: requesting task exceeded its signal-command rate")
)
