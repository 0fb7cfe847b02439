// Command soundbreak runs the meeting-aware music monitor: it pauses
// background music when a configured meeting application appears and resumes
// it when the meeting ends, exposing control and status over HTTP/WebSocket.
package main
