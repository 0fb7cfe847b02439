// Package monitor contains the coordination core: a mutex-owned state
// machine that samples meeting presence and audio playback, and drives
// pause/resume transitions with hysteresis.
//
// States derive from active × was-in-meeting: Stopped, ActiveIdle,
// ActiveInMeeting. The policy on edges:
//
//   - meeting start: record whether music was playing, pause it if so
//   - meeting end: resume only if music was playing when the meeting began,
//     then clear that record whether or not the resume command succeeded
//
// Music the user paused before a meeting is therefore never force-resumed.
//
// Status retrieval doubles as the reaction trigger; there is no always-on
// loop inside the coordinator. The Ticker supplies liveness by polling
// Status every couple of seconds, and a rate gate keeps OS queries to at
// most one set per second however often status is polled.
package monitor
