package storage

import (
	"encoding/json"
	"strings"
	"time"
)

// FormatTime renders t for a TEXT column. The zero time is stored as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a TEXT column written by FormatTime. Unparseable values yield the zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EncodeList stores a string slice as a JSON array.
func EncodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeList reads a JSON array column. Malformed data yields an empty list.
func DecodeList(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// ContainsPattern builds a case-insensitive LIKE argument; pair it with LOWER(column).
func ContainsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}

// LikeEscape is the ESCAPE clause that goes with ContainsPattern.
const LikeEscape = ` ESCAPE '\'`

// Bool converts b to the INTEGER representation used by both dialects.
func Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ListMatchPattern matches one element of a JSON list column, e.g. `"senior"`.
func ListMatchPattern(value string) string {
	return `%"` + value + `"%`
}
