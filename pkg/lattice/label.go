package lattice

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	extentRe = regexp.MustCompile(`Extent\s*\{([^}]*)\}`)
	intentRe = regexp.MustCompile(`Intent\s*\{([^}]*)\}`)
)

// ParseLabel extracts the extent and intent from a serialized concept label
// such as "Extent{o1, o2} Intent{a1}". Tokens are split on commas and
// trimmed; empty tokens are dropped, so "Extent{}" yields an empty slice.
// A missing group yields an empty slice as well.
func ParseLabel(label string) (extent, intent []string) {
	return parseGroup(extentRe, label), parseGroup(intentRe, label)
}

func parseGroup(re *regexp.Regexp, label string) []string {
	out := []string{}
	m := re.FindStringSubmatch(label)
	if m == nil {
		return out
	}
	for _, tok := range strings.Split(m[1], ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// FormatLabel is the inverse of [ParseLabel] for the single-line form.
func FormatLabel(extent, intent []string) string {
	return "Extent{" + strings.Join(extent, ", ") + "} Intent{" + strings.Join(intent, ", ") + "}"
}

// ParseLabel fills Extent and Intent from the label. A concept without a
// label keeps sets that were supplied directly; otherwise it gets empty sets
// and a warning. Parsing happens once per concept; later calls keep the
// first result.
func (c *Concept) ParseLabel(logger *log.Logger) {
	if c.parsed {
		return
	}
	c.parsed = true
	if strings.TrimSpace(c.Label) == "" {
		if c.Extent != nil || c.Intent != nil {
			c.Extent, c.Intent = orEmpty(c.Extent), orEmpty(c.Intent)
			return
		}
		if logger != nil {
			logger.Warn("concept has no label", "id", c.ID)
		}
		c.Extent, c.Intent = []string{}, []string{}
		return
	}
	c.Extent, c.Intent = ParseLabel(c.Label)
}

// ParseLabels parses the label of every concept in the arena.
func (l *Lattice) ParseLabels() {
	for _, c := range l.concepts {
		c.ParseLabel(l.logger)
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
