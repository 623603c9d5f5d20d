package application

import "errors"

var (
	// ErrServiceUnavailable is returned by mutating operations when another
	// mutation is in flight. The engine rejects overlapping calls instead of
	// queueing them, which also prevents a collaborator callback from
	// re-entering the engine mid-operation.
	ErrServiceUnavailable = errors.New("service is unavailable, try again later")
	// ErrEnginePaused ...
	ErrEnginePaused = errors.New("engine is paused")
	// ErrInvalidAccount ...
	ErrInvalidAccount = errors.New("account must not be empty")
	// ErrMissingWithdrawals ...
	ErrMissingWithdrawals = errors.New("batch must carry at least one withdrawal")
)
