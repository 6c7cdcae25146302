//go:build linux

// Package rss reports the process's best-effort resident set size.
package rss

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// MB returns the current resident set size in megabytes, or 0.0 if
// /proc/self/statm can't be read or parsed.
func MB() float64 {
	f, err := os.Open("/proc/self/statm")
	if err != nil {
		return 0.0
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0.0
	}
	fields := strings.Fields(sc.Text())
	if len(fields) < 2 {
		return 0.0
	}
	resident, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0.0
	}
	pageSize := int64(syscall.Getpagesize())
	return float64(resident) * float64(pageSize) / (1024.0 * 1024.0)
}
