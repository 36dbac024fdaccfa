package analysis

import (
	"strconv"
	"strings"
)

// namedColors maps display names to reference RGB values. Lookup picks the
// nearest entry; colors too far from every entry keep their hex string.
var namedColors = []struct {
	name    string
	r, g, b int
}{
	{"black", 20, 20, 20},
	{"white", 245, 245, 245},
	{"gray", 128, 128, 128},
	{"charcoal", 54, 69, 79},
	{"navy", 0, 0, 128},
	{"blue", 50, 80, 200},
	{"sky blue", 135, 206, 235},
	{"teal", 0, 128, 128},
	{"green", 40, 160, 70},
	{"olive", 128, 128, 0},
	{"sage", 158, 178, 140},
	{"yellow", 240, 220, 60},
	{"mustard", 225, 173, 1},
	{"orange", 240, 140, 40},
	{"terracotta", 204, 78, 60},
	{"red", 200, 40, 40},
	{"burgundy", 128, 0, 32},
	{"pink", 240, 150, 180},
	{"blush", 222, 173, 172},
	{"purple", 140, 60, 180},
	{"lavender", 181, 157, 212},
	{"brown", 130, 90, 50},
	{"tan", 210, 180, 140},
	{"beige", 225, 210, 180},
	{"cream", 250, 240, 215},
	{"gold", 212, 175, 55},
}

// Any color farther than this squared distance from every named entry is
// reported by its hex string instead of a wrong-looking name.
const nameDistanceCutoff = 75 * 75

// ColorName returns a display name for a "#rrggbb" string, or the hex string
// itself when nothing in the table is close enough.
func ColorName(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}

	best := -1
	bestDist := nameDistanceCutoff + 1
	for i, nc := range namedColors {
		d := sq(r-nc.r) + sq(g-nc.g) + sq(b-nc.b)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return hex
	}
	return namedColors[best].name
}

func parseHex(hex string) (r, g, b int, ok bool) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	rv, err1 := strconv.ParseInt(s[0:2], 16, 32)
	gv, err2 := strconv.ParseInt(s[2:4], 16, 32)
	bv, err3 := strconv.ParseInt(s[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return int(rv), int(gv), int(bv), true
}

func sq(n int) int { return n * n }
