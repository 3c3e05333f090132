package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The PHP backend is loose about scalar encodings: booleans arrive as
// true/false, 0/1 or "0"/"1", counters as numbers or numeric strings, and
// identifiers as numbers or strings. The Flex types absorb all of that so
// the normalized entities can expose plain Go scalars.

// FlexBool decodes true, 1 and "1" as true; false, 0, "0", "", null and a
// missing key all decode as false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", "1", `"1"`, `"true"`:
		*b = true
	default:
		*b = false
	}
	return nil
}

// FlexInt decodes numbers and numeric strings; null, "" and anything
// unparsable decode as zero.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*i = 0
		return nil
	}
	*i = FlexInt(n)
	return nil
}

// FlexString decodes strings as-is and renders numbers as their decimal
// text, so numeric ids and uuid ids normalize to the same Go type.
// null decodes as "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// firstNonEmpty returns the first string in vals that is not empty after
// trimming whitespace, or "" when all are blank. Normalization uses it to
// prefer the first populated key variant.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
