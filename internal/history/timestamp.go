package history

import "math"

// windowsEpochOffset is the number of seconds between 1601-01-01 and
// 1970-01-01, both UTC.
const windowsEpochOffset = 11644473600

// ChromiumToNative converts a Unix millisecond bound into Chromium's
// microseconds since 1601. Sub-second precision of the bound is dropped.
func ChromiumToNative(ms uint64) int64 {
	secs := ms/1000 + windowsEpochOffset
	if secs > math.MaxInt64/1_000_000 {
		return math.MaxInt64
	}
	return int64(secs * 1_000_000)
}

// ChromiumFromNative converts Chromium microseconds since 1601 back into
// Unix milliseconds. Must stay in sync with chromiumQuery.
func ChromiumFromNative(native int64) int64 {
	return (native/1_000_000 - windowsEpochOffset) * 1000
}

// FirefoxToNative converts a Unix millisecond bound into Firefox's
// microseconds since the Unix epoch.
func FirefoxToNative(ms uint64) int64 {
	if ms > math.MaxInt64/1000 {
		return math.MaxInt64
	}
	return int64(ms * 1000)
}

// FirefoxFromNative converts Firefox microseconds back into Unix milliseconds.
func FirefoxFromNative(native int64) int64 {
	return native / 1000
}
