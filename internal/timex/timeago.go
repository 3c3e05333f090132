package timex

import (
	"strconv"
	"strings"
	"time"
)

// JustNow is the placeholder shown when a timestamp is missing, unparsable,
// or less than a minute old.
const JustNow = "Just now"

// timeNow is a test seam.
var timeNow = time.Now

// TimeAgo renders a server timestamp as a relative label: "Just now",
// "5m ago", "3h ago", "2d ago", or the plain date once it is a week old.
//
// The server emits SQL datetimes ("2006-01-02 15:04:05") without a zone;
// those are treated as UTC. RFC 3339 values are accepted as-is. Future
// timestamps (clock drift) collapse to "Just now".
func TimeAgo(s string) string {
	if s == "" || s == JustNow {
		return JustNow
	}

	ts, err := parseServerTime(s)
	if err != nil {
		return JustNow
	}

	diff := timeNow().UTC().Sub(ts)
	if diff < time.Minute {
		return JustNow
	}
	if diff < time.Hour {
		return strconv.Itoa(int(diff.Minutes())) + "m ago"
	}
	if diff < 24*time.Hour {
		return strconv.Itoa(int(diff.Hours())) + "h ago"
	}
	if days := int(diff.Hours() / 24); days < 7 {
		return strconv.Itoa(days) + "d ago"
	}
	return ts.Format("Jan 2, 2006")
}

func parseServerTime(s string) (time.Time, error) {
	// SQL datetime to ISO: replace the separating space, assume UTC when no
	// zone is present.
	iso := strings.Replace(s, " ", "T", 1)
	if !strings.ContainsAny(iso, "Z+") {
		iso += "Z"
	}
	return time.Parse(time.RFC3339, iso)
}
