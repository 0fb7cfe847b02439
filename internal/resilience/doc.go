// Package resilience provides a small circuit breaker for external tool
// invocations.
//
// The playback probe and controller shell out to osascript/pmset once per
// detection cycle; when one of those tools wedges or disappears, the breaker
// converts repeated slow failures into instant ones until a cooldown passes.
// A breaker-open rejection is indistinguishable from any other probe failure
// to the caller, which keeps the "unknown collapses to not-playing" policy
// intact.
package resilience
