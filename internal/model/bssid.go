package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidBSSID is returned when a string cannot be read as a hardware address.
var ErrInvalidBSSID = errors.New("invalid BSSID")

// bssidOctets is the number of octets in a hardware address.
const bssidOctets = 6

// OUIPrefixLength is the length of the manufacturer prefix of a canonical
// BSSID: three octets and two separators ("00:1b:63").
const OUIPrefixLength = 8

// CanonicalBSSID converts a hardware address to its canonical form: six
// lowercase, zero-padded hex octets separated by colons.
//
// The scanning utility drops leading zeros ("0:1b:63:a:b:c") and
// configuration files are written by hand, so both ':' and '-' separators and
// any letter case are accepted.
func CanonicalBSSID(s string) (string, error) {
	raw := strings.TrimSpace(s)
	sep := ":"
	if strings.Contains(raw, "-") && !strings.Contains(raw, ":") {
		sep = "-"
	}

	parts := strings.Split(raw, sep)
	if len(parts) != bssidOctets {
		return "", fmt.Errorf("%w: %q", ErrInvalidBSSID, s)
	}

	var sb strings.Builder
	sb.Grow(17)
	for i, part := range parts {
		if len(part) == 0 || len(part) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidBSSID, s)
		}
		v, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidBSSID, s)
		}
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", v)
	}
	return sb.String(), nil
}

// OUIPrefix returns the manufacturer prefix of a canonical BSSID.
// Strings shorter than the prefix are returned unchanged.
func OUIPrefix(bssid string) string {
	if len(bssid) < OUIPrefixLength {
		return bssid
	}
	return bssid[:OUIPrefixLength]
}
