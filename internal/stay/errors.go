package stay

import (
	"fmt"
	"time"
)

// InvalidRangeError reports a query range whose end precedes its start
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s", FormatDate(e.End), FormatDate(e.Start))
}

// InvalidConfigError reports an unusable window configuration
type InvalidConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s=%d %s", e.Field, e.Value, e.Reason)
}

// InvalidDateError reports a date string that could not be parsed
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", e.Value)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}
