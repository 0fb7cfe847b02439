// Package ws streams the monitoring status to clients over WebSocket.
//
// Clients connect to /stream and receive a status frame immediately and then
// every couple of seconds. The stream reads LastStatus only; the background
// ticker is what keeps the coordinator reacting, so a slow or absent client
// never affects pause/resume behavior.
package ws
