package coord

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrUnparsable = errors.New("unparsable coordinates")

var (
	gridRe = regexp.MustCompile(`[xX]=?(?P<x>\d{5,})[;,\s]*[yY]=?(?P<y>\d{5,})`)
	hemiRe = regexp.MustCompile(`(?P<x>\d+(?:\.\d+)?)([nNsS])[;,\s]*(?P<y>\d+(?:\.\d+)?)([eEwW])`)
	decRe  = regexp.MustCompile(`^(?P<x>-?\d+(?:\.\d+)?)[;,\s]+(?P<y>-?\d+(?:\.\d+)?)$`)
)

// ParseLatLon reads a WGS84 position from free text. It accepts SK42
// Gauss-Krüger references ("x5709130 y6648746"), hemisphere suffixed pairs
// ("51.49N 35.14W") and plain decimal pairs ("51.49, -35.14").
func ParseLatLon(s string) (float64, float64, error) {
	s = strings.Trim(s, " \t\n\r.,")

	if res := gridRe.FindStringSubmatch(s); res != nil {
		x, err := strconv.Atoi(res[1])
		if err != nil {
			return 0, 0, err
		}

		y, err := strconv.Atoi(res[2])
		if err != nil {
			return 0, 0, err
		}

		lat, lon := GridToWGS84(x, y)

		return lat, lon, nil
	}

	if res := hemiRe.FindStringSubmatch(s); res != nil {
		lat, err := strconv.ParseFloat(res[1], 64)
		if err != nil {
			return 0, 0, err
		}

		if res[2] == "S" || res[2] == "s" {
			lat = -lat
		}

		lon, err := strconv.ParseFloat(res[3], 64)
		if err != nil {
			return 0, 0, err
		}

		if res[4] == "W" || res[4] == "w" {
			lon = -lon
		}

		return lat, lon, nil
	}

	if res := decRe.FindStringSubmatch(s); res != nil {
		lat, err := strconv.ParseFloat(res[1], 64)
		if err != nil {
			return 0, 0, err
		}

		lon, err := strconv.ParseFloat(res[2], 64)
		if err != nil {
			return 0, 0, err
		}

		return lat, lon, nil
	}

	return 0, 0, fmt.Errorf("%w: %q", ErrUnparsable, s)
}

// IsGridRef reports whether ParseLatLon would read s as an SK42 grid
// reference. Such positions come out on WGS84 whatever datum the caller assumed.
func IsGridRef(s string) bool {
	return gridRe.MatchString(s)
}
