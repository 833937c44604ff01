//go:build darwin

package cpu

// pinToCore is a no-op: macOS exposes no thread affinity API.
func pinToCore(int) error {
	return nil
}
