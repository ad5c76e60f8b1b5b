package texttools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Lllllllleong/toolsuite/internal/tools"
)

// CSVToJSON maps each data row onto the header names by position. Splitting
// is a plain comma split: quoted fields containing commas are not supported
// on this path.
func CSVToJSON(src string) (string, error) {
	lines := strings.Split(strings.TrimSpace(src), "\n")
	header := strings.Split(lines[0], ",")
	var buf bytes.Buffer
	buf.WriteString("[")
	for i, line := range lines[1:] {
		cells := strings.Split(line, ",")
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  {")
		written := map[string]int{}
		var obj orderedObject
		for j, h := range header {
			cell := ""
			if j < len(cells) {
				cell = strings.TrimSpace(cells[j])
			}
			obj = obj.set(strings.TrimSpace(h), cell, written)
		}
		for k, kv := range obj {
			if k > 0 {
				buf.WriteString(",")
			}
			fmt.Fprintf(&buf, "\n    %s: %s", jsonString(kv.key), jsonString(kv.value))
		}
		if len(obj) > 0 {
			buf.WriteString("\n  ")
		}
		buf.WriteString("}")
	}
	if len(lines) > 1 {
		buf.WriteString("\n")
	}
	buf.WriteString("]")
	return buf.String(), nil
}

// jsonString quotes s without escaping HTML characters.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(buf.String(), "\n")
}

type keyValue struct {
	key   string
	value string
}

type orderedObject []keyValue

// set keeps the first position of a repeated key and the last value.
func (o orderedObject) set(key, value string, index map[string]int) orderedObject {
	if i, ok := index[key]; ok {
		o[i].value = value
		return o
	}
	index[key] = len(o)
	return append(o, keyValue{key, value})
}

var needsQuoting = regexp.MustCompile(`[",\n]`)

func csvCell(s string) string {
	if needsQuoting.MatchString(s) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

const errNotArrayOfObjects = "Input must be a JSON array of objects."

// JSONToCSV writes one column per key seen across all objects, in order of
// first appearance.
func JSONToCSV(src string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return "", tools.InvalidWrap(err, "%s", err.Error())
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return "", tools.Invalid(errNotArrayOfObjects)
	}
	var rows []map[string]string
	var headers []string
	seen := map[string]bool{}
	for i := 0; dec.More(); i++ {
		row, keys, isObject, err := readRow(dec)
		if err != nil {
			return "", tools.InvalidWrap(err, "%s", err.Error())
		}
		if i == 0 && !isObject {
			return "", tools.Invalid(errNotArrayOfObjects)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return "", tools.InvalidWrap(err, "%s", err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return "", tools.Invalid("invalid character after top-level value")
	}
	if len(rows) == 0 {
		return "", tools.Invalid(errNotArrayOfObjects)
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = csvCell(row[h])
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n"), nil
}

// readRow decodes one array element. Objects yield their keys in document
// order; null counts as an empty object; any other value is an empty row.
func readRow(dec *json.Decoder) (map[string]string, []string, bool, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, false, err
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return map[string]string{}, nil, true, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return map[string]string{}, nil, false, nil
	}
	inner := json.NewDecoder(bytes.NewReader(trimmed))
	inner.UseNumber()
	if _, err := inner.Token(); err != nil {
		return nil, nil, false, err
	}
	row := map[string]string{}
	var keys []string
	for inner.More() {
		tok, err := inner.Token()
		if err != nil {
			return nil, nil, false, err
		}
		key := tok.(string)
		var val json.RawMessage
		if err := inner.Decode(&val); err != nil {
			return nil, nil, false, err
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = cellText(val)
	}
	return row, keys, true, nil
}

// cellText renders a JSON value as cell text: strings unquoted, null empty,
// numbers and booleans verbatim, nested values as compact JSON.
func cellText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case trimmed[0] == '{' || trimmed[0] == '[':
		var out bytes.Buffer
		if err := json.Compact(&out, trimmed); err == nil {
			return out.String()
		}
	}
	return string(trimmed)
}
