// Package app is the composition root. It loads configuration, builds the
// host API client, and connects three independent loops: the debounced
// refresh controller that fetches data, the entity watcher that invalidates
// on shopping list changes, and the Bubble Tea program that renders the
// published snapshots.
package app
