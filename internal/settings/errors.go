package settings

import (
	"errors"
	"fmt"
)

// ErrUpdateFailed is matched by every failed settings write.
var ErrUpdateFailed = errors.New("settings update failed")

// Setting names a synchronised field.
type Setting string

const (
	SettingActive    Setting = "active"
	SettingFrequency Setting = "frequency"
)

// UpdateFailedError describes one failed backend write.
type UpdateFailedError struct {
	Setting Setting
	Handle  string
	Value   string
	// Reverted is true when the displayed value was rolled back.
	Reverted bool
	// Superseded is true when a newer intent for the same setting was
	// issued before this write resolved.
	Superseded bool
	Err        error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("update %s=%s for %q failed (reverted=%t, superseded=%t): %v",
		e.Setting, e.Value, e.Handle, e.Reverted, e.Superseded, e.Err)
}

func (e *UpdateFailedError) Unwrap() error { return e.Err }

func (e *UpdateFailedError) Is(target error) bool { return target == ErrUpdateFailed }
