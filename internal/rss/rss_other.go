//go:build !linux

package rss

// MB returns 0.0 — RSS sampling is Linux-only.
func MB() float64 { return 0.0 }
