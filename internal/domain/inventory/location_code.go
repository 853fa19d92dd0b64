package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LocationCode deriva el código de ubicación de bodega + pasillo/estante/posición.
// Se normaliza a mayúsculas ASCII sin acentos ni espacios, p. ej. "BOD01-A3-R12-B4".
func LocationCode(warehouseCode, aisle, rack, bin string) string {
	parts := make([]string, 0, 4)
	for i, p := range []string{warehouseCode, aisle, rack, bin} {
		p = normalizeSegment(p)
		if p == "" {
			continue
		}
		if i > 0 {
			p = segmentPrefix[i] + strings.TrimPrefix(p, segmentPrefix[i])
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "-")
}

var segmentPrefix = [...]string{"", "A", "R", "B"}

func normalizeSegment(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(out) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LocationChanged indica si cambió alguno de los tres componentes que forman el código.
func LocationChanged(oldAisle, oldRack, oldBin, aisle, rack, bin string) bool {
	return oldAisle != aisle || oldRack != rack || oldBin != bin
}
