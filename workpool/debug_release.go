//go:build !debug

package workpool

// debugLog is a no-op unless built with -tags debug
func debugLog(string, ...interface{}) {}
