package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParse marks model output that could not be turned into a JSON object,
// even after repair. It is an expected, recoverable condition.
var ErrParse = errors.New("unparseable model response")

// ParseError carries the cause of a failed parse and a short excerpt of the
// offending text. It matches ErrParse with errors.Is.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model response: %v (text %q)", e.Err, e.Excerpt)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

const excerptLen = 200

// ParseObject extracts the outermost {...} span from text, repairs common
// model syntax defects and decodes the result as a JSON object.
func ParseObject(text string) (map[string]any, error) {
	span := objectSpan(text)
	if strings.TrimSpace(span) == "" {
		return nil, &ParseError{Excerpt: excerpt(text), Err: errors.New("empty response")}
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(Repair(span)), &out); err != nil {
		return nil, &ParseError{Excerpt: excerpt(text), Err: err}
	}
	if out == nil {
		return nil, &ParseError{Excerpt: excerpt(text), Err: errors.New("not a JSON object")}
	}
	return out, nil
}

// objectSpan returns text from the first '{' through the last '}', or the
// whole text when no such ordered pair exists.
func objectSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// Repair normalizes quote characters and strips trailing commas. Characters
// inside well-formed double-quoted strings are left alone, so apostrophes in
// valid JSON survive.
func Repair(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '"', '\'', '“', '”', '‘', '’':
			i = copyString(&b, runes, i)
		case ',':
			j := i + 1
			for j < len(runes) && isSpace(runes[j]) {
				j++
			}
			if j < len(runes) && (runes[j] == '}' || runes[j] == ']') {
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// copyString writes the string literal opening at runes[start] as a
// double-quoted JSON string and returns the index of its closing quote.
func copyString(b *strings.Builder, runes []rune, start int) int {
	closes := closersFor(runes[start])
	single := runes[start] != '"' && runes[start] != '“' && runes[start] != '”'

	b.WriteByte('"')
	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			if single && runes[i+1] == '\'' {
				b.WriteRune('\'')
			} else {
				b.WriteRune(r)
				b.WriteRune(runes[i+1])
			}
			i++
		case strings.ContainsRune(closes, r):
			b.WriteByte('"')
			return i
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return len(runes) - 1
}

func closersFor(open rune) string {
	switch open {
	case '"':
		return `"`
	case '\'':
		return `'`
	case '“', '”':
		return "”“\""
	default:
		return "’‘'"
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\r' || r == '\t'
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen]) + "..."
}

// IntField reads a numeric field that a model may have emitted as a number
// or a numeric string.
func IntField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(math.Round(v)), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

// StringField reads a string field, returning "" when absent or mistyped.
func StringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// ObjectList reads an array of objects, skipping non-object elements. The
// boolean is false when the field is missing or not an array.
func ObjectList(m map[string]any, key string) ([]map[string]any, bool) {
	raw, ok := m[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, true
}
