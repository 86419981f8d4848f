// Package anonymize derives stable pseudo-identities for patient rows that
// arrive without one. Derivations are pure functions of a seed string
// (normally the episode identifier), so re-importing the same sheet always
// produces the same identifier and name.
package anonymize

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Verifier computes the modulo-11 verification character for a national
// identifier number. Digits are weighted right to left with the cyclic
// weights 2..7; remainder 11 maps to "0" and 10 to "K".
func Verifier(n int) string {
	sum := 0
	mult := 2
	for n > 0 {
		sum += (n % 10) * mult
		n /= 10
		mult++
		if mult > 7 {
			mult = 2
		}
	}
	switch v := 11 - sum%11; v {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(v)
	}
}

// Valid reports whether number and verifier form a checksum-valid
// identifier.
func Valid(number int, verifier string) bool {
	return strings.EqualFold(verifier, Verifier(number))
}

// seedHash is FNV-1a 64 so derivations are identical across processes and
// runs (unlike Go's randomized map hash).
func seedHash(seed string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return h.Sum64()
}

// Identifier derives a checksum-valid pseudo identifier from seed, in the
// dot-grouped display format "NN.NNN.NNN-V". The numeric part lands in
// [5,000,000, 25,000,000), a plausible adult range.
func Identifier(seed string) string {
	n := 5_000_000 + int(seedHash(seed)%20_000_000)
	return Format(n, Verifier(n))
}

// Name derives a replacement (first, last) name pair from seed. The two
// indices come from independent slices of the same hash so first and last
// names vary independently.
func Name(seed string) (string, string) {
	h := seedHash(seed)
	first := firstNames[h%uint64(len(firstNames))]
	last := lastNames[(h/uint64(len(firstNames)))%uint64(len(lastNames))]
	return first, last
}

// Format renders an identifier number and verifier in the conventional
// dot-grouped form, e.g. Format(18234567, "8") == "18.234.567-8".
func Format(number int, verifier string) string {
	digits := strconv.Itoa(number)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return fmt.Sprintf("%s-%s", strings.Join(groups, "."), verifier)
}
