//go:build !linux
// +build !linux

package report

// IsTerminal is only implemented on Linux; elsewhere output is never
// coloured.
func IsTerminal(fd uintptr) bool {
	return false
}
