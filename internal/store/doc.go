// Package store persists the monitored-process list as a JSON document under
// the user config directory. Loading is forgiving: a missing or corrupt file
// falls back to defaults. Saving reports errors so the API layer can surface
// them.
package store
