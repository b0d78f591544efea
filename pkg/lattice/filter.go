package lattice

import "strings"

// Colors assigned by [Filter].
const (
	ColorBoth   Color = "#8e44ad" // label matches an object and an attribute token
	ColorExtent Color = "#2980b9" // label matches an object token only
	ColorIntent Color = "#27ae60" // label matches an attribute token only
	ColorNone   Color = "#bdc3c7" // no token matches
)

// Filter recolors concepts by substring match of object and attribute tokens
// against their raw label. It never removes concepts or links: the returned
// map holds a color for every concept and each concept's Color field is set.
// Blank tokens are ignored.
func Filter(l *Lattice, objects, attributes []string) map[string]Color {
	objects, attributes = cleanTokens(objects), cleanTokens(attributes)
	colors := make(map[string]Color, len(l.concepts))
	for _, c := range l.concepts {
		inExtent := matchesAny(c.Label, objects)
		inIntent := matchesAny(c.Label, attributes)
		switch {
		case inExtent && inIntent:
			c.Color = ColorBoth
		case inExtent:
			c.Color = ColorExtent
		case inIntent:
			c.Color = ColorIntent
		default:
			c.Color = ColorNone
		}
		colors[c.ID] = c.Color
	}
	return colors
}

func matchesAny(label string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(label, t) {
			return true
		}
	}
	return false
}

func cleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
