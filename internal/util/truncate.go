package util

// AuditResponseMax is the stored prefix length for generated responses in
// the logs table. The full text goes back to the caller, never to the DB.
const AuditResponseMax = 500

// Truncate bounds s to max runes, cutting on a rune boundary.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
