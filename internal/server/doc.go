// Package server assembles the application: detector, playback probe and
// controller, coordinator, ticker, config store, metrics, and the gin router
// that fronts them.
package server
