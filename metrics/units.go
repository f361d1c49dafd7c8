package metrics

import (
	"fmt"
	"time"
)

// Lifetime controls how long a recorded value is kept before it is cleared.
type Lifetime int

const (
	// LifetimePing clears the value each time a ping carrying it is sent.
	LifetimePing Lifetime = iota
	// LifetimeApplication keeps the value until the application restarts.
	LifetimeApplication
	// LifetimeUser keeps the value for the lifetime of the user profile.
	LifetimeUser
)

func (l Lifetime) String() string {
	switch l {
	case LifetimePing:
		return "ping"
	case LifetimeApplication:
		return "application"
	case LifetimeUser:
		return "user"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// TimeUnit is the resolution at which time based metrics are reported.
type TimeUnit int

const (
	Nanosecond TimeUnit = iota
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
)

var timeUnitDurations = [...]time.Duration{
	Nanosecond:  time.Nanosecond,
	Microsecond: time.Microsecond,
	Millisecond: time.Millisecond,
	Second:      time.Second,
	Minute:      time.Minute,
	Hour:        time.Hour,
	Day:         24 * time.Hour,
}

var timeUnitNames = [...]string{
	Nanosecond:  "nanosecond",
	Microsecond: "microsecond",
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
}

// Duration returns the length of one unit.
func (u TimeUnit) Duration() time.Duration {
	if u < Nanosecond || u > Day {
		return time.Nanosecond
	}
	return timeUnitDurations[u]
}

// Convert expresses d as a whole number of units, rounding down.
func (u TimeUnit) Convert(d time.Duration) int64 {
	return int64(d / u.Duration())
}

func (u TimeUnit) String() string {
	if u < Nanosecond || u > Day {
		return fmt.Sprintf("TimeUnit(%d)", int(u))
	}
	return timeUnitNames[u]
}

// MemoryUnit is the unit memory distribution samples are supplied in.
type MemoryUnit int

const (
	Byte MemoryUnit = iota
	Kilobyte
	Megabyte
	Gigabyte
)

// Bytes returns the number of bytes in one unit (powers of 1024).
func (u MemoryUnit) Bytes() int64 {
	switch u {
	case Kilobyte:
		return 1 << 10
	case Megabyte:
		return 1 << 20
	case Gigabyte:
		return 1 << 30
	default:
		return 1
	}
}

func (u MemoryUnit) String() string {
	switch u {
	case Byte:
		return "byte"
	case Kilobyte:
		return "kilobyte"
	case Megabyte:
		return "megabyte"
	case Gigabyte:
		return "gigabyte"
	default:
		return fmt.Sprintf("MemoryUnit(%d)", int(u))
	}
}
