// Package payload generates random byte and string payloads for feeding
// bulk-submission collections into a worker pool. Generators are stateless
// apart from the Rand they are handed, so callers control seeding and
// reproducibility.
package payload

import "math/rand/v2"

const (
	alphaCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	alnumCharset = alphaCharset + "0123456789"
)

// Bytes returns size random bytes.
func Bytes(size int, rng *rand.Rand) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte(rng.UintN(256))
	}
	return b
}

// String returns a random alphanumeric string of length size.
func String(size int, rng *rand.Rand) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = alnumCharset[rng.IntN(len(alnumCharset))]
	}
	return string(b)
}

// AlphaString returns a random string of length size drawn from ASCII
// letters only.
func AlphaString(size int, rng *rand.Rand) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = alphaCharset[rng.IntN(len(alphaCharset))]
	}
	return string(b)
}

// ByteSlices returns count payloads of size random bytes each. With unique
// set, every payload is distinct (resampling on collision); otherwise one
// payload is generated and repeated count times, which is the cheap choice
// for load tests hammering a single key.
func ByteSlices(count, size int, rng *rand.Rand, unique bool) [][]byte {
	if !unique {
		one := Bytes(size, rng)
		out := make([][]byte, count)
		for i := range out {
			out[i] = one
		}
		return out
	}

	seen := make(map[string]struct{}, count)
	out := make([][]byte, 0, count)
	for len(out) < count {
		b := Bytes(size, rng)
		if _, dup := seen[string(b)]; dup {
			continue
		}
		seen[string(b)] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Strings returns count random alphanumeric strings of length size. With
// unique set, every string is distinct (resampling on collision).
func Strings(count, size int, rng *rand.Rand, unique bool) []string {
	out := make([]string, 0, count)
	if !unique {
		for range count {
			out = append(out, String(size, rng))
		}
		return out
	}

	seen := make(map[string]struct{}, count)
	for len(out) < count {
		s := String(size, rng)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
