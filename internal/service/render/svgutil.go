package render

import "bytes"

// sanitizeSVG normalises the style spellings oksvg's parser rejects.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill:000000"), []byte("fill:#000000"))
	fixed = bytes.ReplaceAll(fixed, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("; "), []byte(";"))
	return fixed
}
