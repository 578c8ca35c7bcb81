package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN rendering of v, covering the subset CLI payloads
// need: maps, vectors, strings, numbers, booleans, nil. Structs are routed
// through JSON first so the json tags decide field naming.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var sb strings.Builder
	writeEDNValue(&sb, x, pretty, 0)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeEDNValue(sb *strings.Builder, v any, pretty bool, level int) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case float64:
		// interface{} JSON numbers arrive as float64; print integral values
		// without the fraction.
		if float64(int64(t)) == t {
			sb.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		sb.WriteByte('[')
		for i, it := range t {
			ednSeparator(sb, pretty, level+1, i == 0)
			writeEDNValue(sb, it, pretty, level+1)
		}
		ednClose(sb, pretty, level, len(t) == 0)
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			ednSeparator(sb, pretty, level+1, i == 0)
			sb.WriteByte(':')
			sb.WriteString(strings.ReplaceAll(strings.TrimSpace(k), " ", "-"))
			sb.WriteByte(' ')
			writeEDNValue(sb, t[k], pretty, level+1)
		}
		ednClose(sb, pretty, level, len(t) == 0)
		sb.WriteByte('}')
	default:
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func ednSeparator(sb *strings.Builder, pretty bool, level int, first bool) {
	if pretty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", level))
		return
	}
	if !first {
		sb.WriteByte(' ')
	}
}

func ednClose(sb *strings.Builder, pretty bool, level int, empty bool) {
	if pretty && !empty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", level))
	}
}
