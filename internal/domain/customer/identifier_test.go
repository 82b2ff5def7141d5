package customer

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func TestIDGenerator_Generate(t *testing.T) {
	at := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.UTC)

	t.Run("formats CID plus YYMMDDHHMMSS", func(t *testing.T) {
		id := NewIDGenerator(fixedClock(at)).Generate()

		assert.Equal(t, "CID240305070809", id)
		assert.Len(t, id, 15)
	})

	t.Run("calls in the same second collide", func(t *testing.T) {
		gen := NewIDGenerator(fixedClock(at.Add(300 * time.Millisecond)))
		first := gen.Generate()

		gen = NewIDGenerator(fixedClock(at.Add(900 * time.Millisecond)))
		second := gen.Generate()

		assert.Equal(t, first, second)
	})

	t.Run("calls one second apart differ", func(t *testing.T) {
		first := NewIDGenerator(fixedClock(at)).Generate()
		second := NewIDGenerator(fixedClock(at.Add(time.Second))).Generate()

		assert.NotEqual(t, first, second)
		assert.Equal(t, "CID240305070810", second)
	})

	t.Run("nil clock uses the system clock", func(t *testing.T) {
		id := NewIDGenerator(nil).Generate()

		assert.True(t, IsValidCustomerID(id))
	})
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()

	assert.Regexp(t, regexp.MustCompile(`^CID[0-9]{12}$`), id)
}

func TestUniqueIDGenerator(t *testing.T) {
	at := time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)

	t.Run("counter suffix separates same-second ids", func(t *testing.T) {
		gen := NewUniqueIDGenerator(fixedClock(at), &CounterSuffix{})

		assert.Equal(t, "CID241231235959-1", gen.Generate())
		assert.Equal(t, "CID241231235959-2", gen.Generate())
	})

	t.Run("counter suffix is safe for concurrent use", func(t *testing.T) {
		gen := NewUniqueIDGenerator(fixedClock(at), &CounterSuffix{})

		var mu sync.Mutex
		seen := make(map[string]struct{})
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := gen.Generate()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, 50)
	})

	t.Run("random suffix keeps the base prefix", func(t *testing.T) {
		gen := NewUniqueIDGenerator(fixedClock(at), RandomSuffix{})
		id := gen.Generate()

		require.Len(t, id, 15+1+8)
		assert.Equal(t, "CID241231235959", id[:15])
		assert.True(t, IsValidCustomerID(id))
	})
}

func TestNewIDGeneratorForMode(t *testing.T) {
	at := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		mode string
		want *regexp.Regexp
	}{
		{"none", regexp.MustCompile(`^CID250102030405$`)},
		{"", regexp.MustCompile(`^CID250102030405$`)},
		{"Counter", regexp.MustCompile(`^CID250102030405-1$`)},
		{"random", regexp.MustCompile(`^CID250102030405-[0-9a-f]{8}$`)},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			id := NewIDGeneratorForMode(fixedClock(at), tt.mode).Generate()
			assert.Regexp(t, tt.want, id)
		})
	}
}

func TestIsValidCustomerID(t *testing.T) {
	assert.True(t, IsValidCustomerID("CID240305070809"))
	assert.True(t, IsValidCustomerID("CID240305070809-12"))
	assert.False(t, IsValidCustomerID("CID2403050708"))
	assert.False(t, IsValidCustomerID("XID240305070809"))
	assert.False(t, IsValidCustomerID(""))
}
