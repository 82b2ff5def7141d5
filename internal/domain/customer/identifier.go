package customer

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDPrefix is prepended to every customer identifier
const IDPrefix = "CID"

// idLayout renders YYMMDDHHMMSS
const idLayout = "060102150405"

var customerIDPattern = regexp.MustCompile(`^CID[0-9]{12}(-[0-9A-Za-z]+)?$`)

// Clock supplies the wall-clock time used to mint identifiers
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now
type SystemClock struct{}

// Now returns the current local time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a plain function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time {
	return f()
}

// SuffixStrategy produces the optional uniqueness suffix appended to an identifier
type SuffixStrategy interface {
	Next() string
}

// CounterSuffix appends a process-wide increasing counter. Safe for concurrent use.
type CounterSuffix struct {
	n atomic.Uint64
}

// Next returns the next counter value
func (s *CounterSuffix) Next() string {
	return fmt.Sprintf("%d", s.n.Add(1))
}

// RandomSuffix appends eight random hex characters
type RandomSuffix struct{}

// Next returns a random suffix
func (RandomSuffix) Next() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// IDGenerator mints customer identifiers from the clock.
//
// Without a suffix strategy two calls in the same calendar second return the
// same identifier. Storage rejects the second insert as a conflict.
type IDGenerator struct {
	clock  Clock
	suffix SuffixStrategy
}

// NewIDGenerator creates a generator reading the given clock
func NewIDGenerator(clock Clock) *IDGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &IDGenerator{clock: clock}
}

// NewUniqueIDGenerator creates a generator that appends suffix.Next() to every identifier
func NewUniqueIDGenerator(clock Clock, suffix SuffixStrategy) *IDGenerator {
	g := NewIDGenerator(clock)
	g.suffix = suffix
	return g
}

// NewIDGeneratorForMode builds a generator from a configuration mode:
// "counter", "random", or anything else for the plain time-derived scheme.
func NewIDGeneratorForMode(clock Clock, mode string) *IDGenerator {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "counter":
		return NewUniqueIDGenerator(clock, &CounterSuffix{})
	case "random":
		return NewUniqueIDGenerator(clock, RandomSuffix{})
	default:
		return NewIDGenerator(clock)
	}
}

// Generate returns "CID" followed by YYMMDDHHMMSS of the current time
func (g *IDGenerator) Generate() string {
	id := IDPrefix + g.clock.Now().Format(idLayout)
	if g.suffix != nil {
		id += "-" + g.suffix.Next()
	}
	return id
}

var defaultGenerator = NewIDGenerator(SystemClock{})

// GenerateID mints an identifier from the system clock
func GenerateID() string {
	return defaultGenerator.Generate()
}

// CodeInvalidCustomerID is returned when a caller supplies a malformed identifier
const CodeInvalidCustomerID = "INVALID_CUSTOMER_ID"

// IsValidCustomerID reports whether id has the CID + 12 digit shape,
// optionally followed by a uniqueness suffix
func IsValidCustomerID(id string) bool {
	return customerIDPattern.MatchString(id)
}
