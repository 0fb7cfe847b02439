// Package playback answers "is audio playing" and issues best-effort
// play/pause commands on macOS.
//
// The probe runs a ranked strategy chain, each strategy returning a tri-state
// answer (playing / not-playing / unknown):
//
//  1. now-playing: media-session query of known players via AppleScript,
//     never launching an app to ask it
//  2. power-assertion: coreaudiod sleep assertions as corroborating evidence
//
// Unknown falls through; only an exhausted chain collapses to not-playing.
// The bias is deliberate: a missed pause is a minor annoyance, a forced
// resume of music the user had paused is not. Resume is only ever attempted
// when a prior "was playing" observation is on record.
//
// The controller mirrors the chain idea for commands: direct per-player
// AppleScript control first, a simulated media key last.
package playback
