package auth

import "time"

// ResolveTimezone turns a caller-supplied IANA zone name into a
// (name, UTC offset seconds) pair. Unrecognized or empty names fall back
// to the system default zone.
func ResolveTimezone(name string) (string, int) {
	loc := time.Local
	if name != "" {
		if parsed, err := time.LoadLocation(name); err == nil {
			loc = parsed
		}
	}
	zoneName := loc.String()
	_, offset := time.Now().In(loc).Zone()
	return zoneName, offset
}
