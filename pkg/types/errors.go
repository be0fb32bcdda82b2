// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// ConfigError reports an invalid model configuration or topic selection. It
// is returned before any stage runs.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Message)
}

// GenerationError reports a stage that could not produce its artifact.
type GenerationError struct {
	Stage  StageName
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Detail, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// BackendTimeoutError reports a completion call that timed out or failed at
// the transport level.
type BackendTimeoutError struct {
	Backend string
	Timeout time.Duration
	Err     error
}

func (e *BackendTimeoutError) Error() string {
	return fmt.Sprintf("%s backend unavailable (timeout %s): %v", e.Backend, e.Timeout, e.Err)
}

func (e *BackendTimeoutError) Unwrap() error { return e.Err }
