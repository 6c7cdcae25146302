// Package symlabel generates deterministic synthetic ticker labels for the
// engine's bare integer symbol ids, for report.md/API readability only —
// labels have no bearing on engine semantics.
package symlabel

import "fmt"

// alphabet used to turn a symbol id into a short pronounceable-ish label.
var alphabet = [...]string{
	"NEXO", "QBIT", "FLUX", "SYNK", "PULS", "CYRA", "LEDG", "VALT",
	"CRDT", "MNTX", "FNDX", "HELX", "CURA", "GENX", "BIOS", "VOLT",
	"SOLR", "FUSE", "WATT", "BRND", "LUXE", "DLVR", "RSTK", "FORG",
	"BLDR", "MACH", "ALOY", "MKTS", "GRWT", "BLITZ",
}

// Label returns a deterministic short label for symbol id sym.
// For sym within len(alphabet) it uses a fixed catalog entry; beyond that
// it falls back to "SYM<n>" so any symbol count is covered.
func Label(sym int) string {
	if sym >= 0 && sym < len(alphabet) {
		return alphabet[sym]
	}
	return fmt.Sprintf("SYM%d", sym)
}

// Labels returns labels for symbols 0..n-1, in order.
func Labels(n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = Label(i)
	}
	return out
}
