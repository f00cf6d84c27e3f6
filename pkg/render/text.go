package render

import (
	"bytes"
	"encoding/xml"
)

const (
	fontCharWidth = 0.55
	labelFontMax  = 22.0
	labelFontMin  = 10.0
	subFontRatio  = 0.7
)

// labelFontSize fits a label of n characters into availWidth, capped by the
// card height.
func labelFontSize(availWidth, height float64, n int) float64 {
	n = max(1, n)
	byWidth := availWidth / (float64(n) * fontCharWidth)
	byHeight := height * 0.2
	return max(labelFontMin, min(labelFontMax, byWidth, byHeight))
}

// truncate shortens s so it fits availWidth at fontSize.
func truncate(s string, availWidth, fontSize float64) string {
	maxChars := max(int(availWidth/(fontSize*fontCharWidth)), 3)
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
