package utils

import (
	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"bytes", "KB", "MB", "GB", "TB"}

// SizeUnit returns the unit label a byte count is displayed in: "bytes" below
// 1024, then "KB", "MB", "GB" and "TB". Negative counts are "bytes".
func SizeUnit(n int64) string {
	v := float64(n)
	for _, unit := range sizeUnits {
		if v < 1024 {
			return unit
		}
		v /= 1024
	}
	return sizeUnits[len(sizeUnits)-1]
}

// HumanBytes formats a byte count with IEC units, e.g. "1.5 KiB".
// Negative counts keep their sign.
func HumanBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
