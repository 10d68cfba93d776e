package randomname

import (
	"fmt"
	"math/rand/v2"
)

// Generate returns a name in the form "adjective-noun-xxxxxxxx" where the
// suffix is 32 random bits in hex. It is safe for concurrent use.
func Generate() string {
	return fmt.Sprintf("%s-%s-%08x",
		adjectives[rand.IntN(len(adjectives))],
		nouns[rand.IntN(len(nouns))],
		rand.Uint32(),
	)
}

// GenerateUnique calls Generate until taken reports false. It gives up after
// attempts tries and returns the last candidate with ok=false.
func GenerateUnique(taken func(name string) bool, attempts int) (name string, ok bool) {
	for range max(attempts, 1) {
		name = Generate()
		if taken == nil || !taken(name) {
			return name, true
		}
	}
	return name, false
}
