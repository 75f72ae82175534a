package session

import "time"

// Clock produces the current time. Controllers sample it at most once per
// built outbound message; tests substitute a fixed clock for determinism.
type Clock func() time.Time

func defaultClock() time.Time { return time.Now() }
