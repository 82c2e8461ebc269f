package cli

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

const shortUnitsSpec = "y:y,wk:wk,d:d,h:h,m:m,s:s,ms:ms,us:us"

var shortUnits = mustUnits(shortUnitsSpec)

func mustUnits(spec string) durafmt.Units {
	u, err := durafmt.DefaultUnitsCoder.Decode(spec)
	if err != nil {
		panic("cli: duration units: " + err.Error())
	}
	return u
}

// FormatDuration formats a duration with its two largest units, e.g. "7s 520ms".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0ms"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

// FormatBytes formats a byte count, e.g. "240 kB".
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
