// Package persistence stores device runtime state across power cycles, so a
// Low Power Node waking from shutdown sleep can restore its output state
// (on-power-up RESTORE behavior) instead of booting dark.
package persistence
