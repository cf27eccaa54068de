// ─────────────────────────────────────────────────────────────────────────────
// debuglog.go — cold-path diagnostic logging (no fmt, few allocations)
//
// Purpose:
//   - Logs contract violations, recovery events, and lifecycle transitions
//     with a small, fixed amount of heap work per call: the concatenated
//     line and its []byte copy.
//   - Never called from inside a primitive's Publish/Push/Write/Read —
//     those stay silent on the hot path by contract.
//
// Notes:
//   - Avoids fmt.Sprintf; builds the message by string concatenation and
//     writes it directly to stderr (fd 2) via syscall.Write.
//   - Not safe to call before the process has a valid fd 2 (e.g. very
//     early init under some sandboxes) — acceptable for a diagnostics-only
//     path.
// ─────────────────────────────────────────────────────────────────────────────
package debuglog

import "syscall"

// Error logs prefix and err on one line. err may be nil, in which case
// only prefix is printed — useful for tagging a recovered event with no
// associated Go error value.
func Error(prefix string, err error) {
	if err != nil {
		write(prefix + ": " + err.Error() + "\n")
	} else {
		write(prefix + "\n")
	}
}

// Message logs prefix and message on one line. Used for state-transition
// and recovery diagnostics where there is no error value at all.
func Message(prefix, message string) {
	write(prefix + ": " + message + "\n")
}

func write(msg string) {
	b := []byte(msg)
	for len(b) > 0 {
		n, err := syscall.Write(2, b)
		if err != nil || n <= 0 {
			return
		}
		b = b[n:]
	}
}
