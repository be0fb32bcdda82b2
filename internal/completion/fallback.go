// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"errors"

	"github.com/pdiddy/healthpulse/pkg/types"
)

// Fallback sends requests to Primary and, when Primary is unavailable
// (a BackendTimeoutError), re-issues them once to Secondary. Other errors
// are returned unchanged.
type Fallback struct {
	Primary   Backend
	Secondary Backend

	// OnFallback is called with the primary error before the request is
	// re-issued. Optional.
	OnFallback func(err error)
}

// Name implements Backend.
func (f *Fallback) Name() string { return f.Primary.Name() }

// Complete implements Backend.
func (f *Fallback) Complete(ctx context.Context, req Request) (string, error) {
	out, err := f.Primary.Complete(ctx, req)
	if err == nil {
		return out, nil
	}
	var timeoutErr *types.BackendTimeoutError
	if !errors.As(err, &timeoutErr) || ctx.Err() != nil {
		return "", err
	}
	if f.OnFallback != nil {
		f.OnFallback(err)
	}
	return f.Secondary.Complete(ctx, req)
}
