package config

import (
	"net/url"
	"slices"
	"strings"
)

// attributeEscaper protects the delimiters of the composite string.
var attributeEscaper = strings.NewReplacer(
	"%", "%25",
	",", "%2C",
	"=", "%3D",
)

// EncodeResourceAttributes renders attrs as key=value pairs joined with commas.
// Known keys keep a fixed position; any others follow in lexical order.
// Values are trimmed of surrounding whitespace. A value that is empty after
// trimming is not encoded at all, so {"k": ""} encodes to "" and decodes back
// to an empty map.
func EncodeResourceAttributes(attrs map[string]string) string {
	pairs := make([]string, 0, len(attrs))
	for _, key := range orderedKeys(attrs) {
		value := strings.TrimSpace(attrs[key])
		if value == "" {
			continue
		}
		pairs = append(pairs, key+"="+attributeEscaper.Replace(value))
	}
	return strings.Join(pairs, ",")
}

func orderedKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for _, key := range attributeOrder {
		if _, ok := attrs[key]; ok {
			keys = append(keys, key)
		}
	}

	var rest []string
	for key := range attrs {
		if !slices.Contains(attributeOrder, key) {
			rest = append(rest, key)
		}
	}
	slices.Sort(rest)

	return append(keys, rest...)
}

// DecodeResourceAttributes parses a composite attribute string.
// Segments without '=' are skipped. Keys and decoded values are trimmed of
// surrounding whitespace, and a segment whose value is empty is skipped like
// it is on encode. A value whose escapes cannot be decoded is kept verbatim.
func DecodeResourceAttributes(s string) map[string]string {
	attrs := make(map[string]string)

	for _, segment := range strings.Split(s, ",") {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		if decoded, err := url.PathUnescape(value); err == nil {
			value = decoded
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		attrs[key] = value
	}

	return attrs
}
