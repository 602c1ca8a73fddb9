// Package gpio defines the line-level interfaces clock gates drive.
// Implementations live in gpio/gpiosim (in-memory, for tests and the
// simulator) and gpio/chardev (Linux character device).
package gpio

// Level is the electrical state of a line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Chip hands out exclusively owned output lines.
type Chip interface {
	// RequestOutput claims the named line for consumer and drives it to
	// initial. It fails with errcode.ResourceUnavailable if the line
	// does not exist or is already claimed.
	RequestOutput(name, consumer string, initial Level) (Line, error)
}

// Line is an exclusively owned output line. Set and Get are infallible
// at this layer; Close releases the claim and must be called exactly
// once.
type Line interface {
	Name() string
	Set(Level)
	Get() Level
	Close() error
}
