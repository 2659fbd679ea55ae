package utils

import "time"

// FormatEpoch renders an epoch-millis timestamp as RFC3339 UTC,
// which is how every API and socket payload serializes times.
func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}
