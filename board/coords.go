package board

import (
	"regexp"
	"strconv"
	"strings"
)

var reCoords = regexp.MustCompile(`^(?P<col>[A-Za-z]+)(?P<row>[0-9]+)$`)

// GridCoords converts a row and column to a coordinate like A1 or C12.
// Columns past Z continue as AA, AB, ...
func GridCoords(row int, col int) string {
	return colLabel(col) + strconv.Itoa(row+1)
}

func colLabel(col int) string {
	var b []byte
	for col >= 0 {
		b = append([]byte{byte('A' + col%26)}, b...)
		col = col/26 - 1
	}
	return string(b)
}

// FromGridCoords does the inverse operation of GridCoords above.
func FromGridCoords(c string) (row int, col int, ok bool) {
	m := reCoords.FindStringSubmatch(c)
	if len(m) != 3 {
		return 0, 0, false
	}
	r, err := strconv.Atoi(m[2])
	if err != nil || r < 1 {
		return 0, 0, false
	}
	col = 0
	for _, ch := range strings.ToUpper(m[1]) {
		col = col*26 + int(ch-'A') + 1
	}
	return r - 1, col - 1, true
}
