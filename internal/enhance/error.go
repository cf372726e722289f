package enhance

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ProviderError wraps a failed provider call with its HTTP status.
type ProviderError struct {
	Provider  string
	Status    int
	Temporary bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: provider error (status=%d)", e.Provider, e.Status)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error is worth retrying later:
// rate limits, 5xx responses and timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		if perr.Temporary {
			return true
		}
		if perr.Status == 429 || (perr.Status >= 500 && perr.Status <= 599) {
			return true
		}
	}
	return false
}
