package sheet

import "strings"

// headerScanLimit bounds how many leading rows are scanned for the header.
// Exports sometimes carry a few banner or title rows above the real header.
const headerScanLimit = 20

// headerTokenMin is the number of distinct vocabulary tokens a row must
// contain to be declared the header.
const headerTokenMin = 2

// headerTokens is the domain vocabulary used to recognize a header row.
// Matching is substring over lower-cased cells, so "Fecha de nacimiento"
// counts both "fecha" and "nacimiento".
var headerTokens = []string{
	"rut", "episodio", "cama", "fecha", "nacimiento",
	"nombre", "estado", "habitacion", "puntaje", "servicio",
}

// detectHeaderRow scans the leading rows of a raw grid and returns the
// index of the first row containing enough distinct domain tokens. Falls
// back silently to row 0; a wrong guess surfaces later as unmapped columns,
// not as an error here.
func detectHeaderRow(grid [][]string) int {
	limit := len(grid)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(grid[i], " "))
		distinct := 0
		for _, tok := range headerTokens {
			if strings.Contains(joined, tok) {
				distinct++
			}
		}
		if distinct >= headerTokenMin {
			return i
		}
	}
	return 0
}
