// Package testing provides test doubles for carousel hosts.
//
// Import it under an alias to avoid clashing with the standard library:
//
//	import drifttest "github.com/go-drift/carousel/pkg/testing"
//
// [FakeClock] drives animation frames and auto-advance countdowns without
// sleeping. [Viewport] records the scroll commands a carousel issues.
package testing
