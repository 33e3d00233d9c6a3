package term

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EffectMarker is the insertion point of a limiter template.
const EffectMarker = "{effect}"

// Stat binds a placeholder to a creature stat.
type Stat int

const (
	StatNone Stat = iota
	StatAttack
	StatHealth
)

type segmentKind int

const (
	segText segmentKind = iota
	segPlaceholder
	segMarker
)

type segment struct {
	kind      segmentKind
	text      string
	magnitude int
	stat      Stat
}

// Template is an effect text with scaling placeholders.
//
// Placeholders are written {X}, {kX}, {kX:attack} or {kX:health}. A placeholder
// renders as magnitude × count; a bare {X} has magnitude 1. Stat-bound
// placeholders also add their rendered value to the card's attack or health.
// {effect} marks where a limiter splices its children's text.
type Template struct {
	Raw      string
	segments []segment
}

// ParseTemplate splits raw into text, placeholder and marker segments.
// Brace groups that are not placeholders are kept as text.
func ParseTemplate(raw string) Template {
	t := Template{Raw: raw}
	rest := raw
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			t.segments = append(t.segments, segment{kind: segText, text: text.String()})
			text.Reset()
		}
	}
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			text.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			text.WriteString(rest)
			break
		}
		end += open
		text.WriteString(rest[:open])
		inner := rest[open+1 : end]
		if seg, ok := parsePlaceholder(inner); ok {
			flush()
			t.segments = append(t.segments, seg)
		} else {
			text.WriteString(rest[open : end+1])
		}
		rest = rest[end+1:]
	}
	flush()
	return t
}

func parsePlaceholder(inner string) (segment, bool) {
	if inner == "effect" {
		return segment{kind: segMarker}, true
	}
	body, statName, hasStat := strings.Cut(inner, ":")
	stat := StatNone
	if hasStat {
		switch statName {
		case "attack":
			stat = StatAttack
		case "health":
			stat = StatHealth
		default:
			return segment{}, false
		}
	}
	if !strings.HasSuffix(body, "X") {
		return segment{}, false
	}
	magnitude := 1
	if k := strings.TrimSuffix(body, "X"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			return segment{}, false
		}
		magnitude = n
	}
	return segment{kind: segPlaceholder, magnitude: magnitude, stat: stat}, true
}

func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*t = ParseTemplate(raw)
	return nil
}

func (t Template) MarshalYAML() (any, error) {
	return t.Raw, nil
}

// HasPlaceholder reports whether any segment scales with count.
func (t Template) HasPlaceholder() bool {
	for _, s := range t.segments {
		if s.kind == segPlaceholder {
			return true
		}
	}
	return false
}

// HasMarker reports whether the template carries an {effect} insertion point.
func (t Template) HasMarker() bool {
	for _, s := range t.segments {
		if s.kind == segMarker {
			return true
		}
	}
	return false
}

// Magnitude returns the magnitude of the first placeholder, or 0 if none.
func (t Template) Magnitude() int {
	for _, s := range t.segments {
		if s.kind == segPlaceholder {
			return s.magnitude
		}
	}
	return 0
}

// Rendered is a filled template.
type Rendered struct {
	Text   string
	Attack int
	Health int
}

// Fill renders the template for count copies. insert replaces the {effect}
// marker; without a marker a non-empty insert is appended.
func (t Template) Fill(count int, insert string) Rendered {
	var out Rendered
	var sb strings.Builder
	inserted := false
	for _, s := range t.segments {
		switch s.kind {
		case segText:
			sb.WriteString(s.text)
		case segPlaceholder:
			v := s.magnitude * count
			sb.WriteString(strconv.Itoa(v))
			switch s.stat {
			case StatAttack:
				out.Attack += v
			case StatHealth:
				out.Health += v
			}
		case segMarker:
			sb.WriteString(insert)
			inserted = true
		}
	}
	text := strings.TrimSpace(sb.String())
	if !inserted && insert != "" {
		if text == "" {
			text = insert
		} else {
			text = text + " " + insert
		}
	}
	out.Text = text
	return out
}
