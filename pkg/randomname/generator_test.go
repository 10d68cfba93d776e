package randomname_test

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/uploads/pkg/randomname"
)

var namePattern = regexp.MustCompile(`^[a-z]+-[a-z]+-[0-9a-f]{8}$`)

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("format", func(t *testing.T) {
		t.Parallel()
		for range 100 {
			name := randomname.Generate()
			assert.Regexp(t, namePattern, name)
		}
	})

	t.Run("concurrent generation is mostly unique", func(t *testing.T) {
		t.Parallel()
		var (
			mu    sync.Mutex
			seen  = make(map[string]struct{})
			wg    sync.WaitGroup
			total = 1000
		)
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range total / 10 {
					name := randomname.Generate()
					mu.Lock()
					seen[name] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.GreaterOrEqual(t, len(seen), total-1)
	})
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()

	t.Run("skips taken names", func(t *testing.T) {
		t.Parallel()
		calls := 0
		name, ok := randomname.GenerateUnique(func(string) bool {
			calls++
			return calls < 3
		}, 5)
		assert.True(t, ok)
		assert.Equal(t, 3, calls)
		assert.Regexp(t, namePattern, name)
	})

	t.Run("gives up", func(t *testing.T) {
		t.Parallel()
		calls := 0
		name, ok := randomname.GenerateUnique(func(string) bool {
			calls++
			return true
		}, 4)
		assert.False(t, ok)
		assert.Equal(t, 4, calls)
		assert.NotEmpty(t, name)
	})

	t.Run("nil check accepts first", func(t *testing.T) {
		t.Parallel()
		_, ok := randomname.GenerateUnique(nil, 0)
		assert.True(t, ok)
	})
}
