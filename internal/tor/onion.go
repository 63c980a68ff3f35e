package tor

import (
	"encoding/base32"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OnionSuffix is the common suffix of all onion addresses.
const OnionSuffix = ".onion"

// onionV3Version is the version byte embedded in v3 onion addresses.
const onionV3Version = 0x03

// onionV3Pattern matches a complete v3 onion host: 56 base32 characters
// plus the suffix. Base32 here is lowercase a-z and digits 2-7.
var onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

// checksumPrefix is defined by the Tor rendezvous specification.
var checksumPrefix = []byte(".onion checksum")

// IsOnionHost reports whether host ends in .onion, ignoring case.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(strings.ToLower(host), OnionSuffix)
}

// IsValidV3Host reports whether host is a well-formed v3 onion address
// with a correct embedded checksum. Full checksum validation catches typos
// and corrupted addresses that a pattern match would accept.
func IsValidV3Host(host string) bool {
	host = strings.ToLower(host)
	if !onionV3Pattern.MatchString(host) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(
		strings.ToUpper(strings.TrimSuffix(host, OnionSuffix)))
	if err != nil {
		return false
	}

	// 32 bytes ed25519 public key, 2 bytes checksum, 1 byte version.
	if len(decoded) != 35 {
		return false
	}
	pubkey := decoded[:32]
	checksum := decoded[32:34]
	version := decoded[34]

	if version != onionV3Version {
		return false
	}

	// Checksum = first 2 bytes of SHA3-256(".onion checksum" || pubkey || version).
	data := make([]byte, 0, len(checksumPrefix)+33)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	want := sha3.Sum256(data)

	return checksum[0] == want[0] && checksum[1] == want[1]
}
