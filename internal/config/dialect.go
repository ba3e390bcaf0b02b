package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Dialect is a shell syntax the configuration can be written in.
type Dialect int

const (
	// DialectPOSIX is export KEY='value', sourced by bash and zsh.
	DialectPOSIX Dialect = iota
	// DialectFish is set -gx KEY 'value'.
	DialectFish
)

const (
	posixExportPrefix = "export "
	fishSetPrefix     = "set -gx "
)

var errUnterminatedQuote = errors.New("unterminated quoted value")

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectPOSIX:
		return "posix"
	case DialectFish:
		return "fish"
	default:
		return "unknown"
	}
}

// Extension returns the file extension used for the dialect.
func (d Dialect) Extension() string {
	if d == DialectFish {
		return ".fish"
	}
	return ".env"
}

// Other returns the sibling dialect.
func (d Dialect) Other() Dialect {
	if d == DialectFish {
		return DialectPOSIX
	}
	return DialectFish
}

// EnvVar is a single variable assignment.
type EnvVar struct {
	Key   string
	Value string
}

// Line renders one assignment.
func (d Dialect) Line(key, value string) string {
	if d == DialectFish {
		return fishSetPrefix + key + " " + quoteFish(value)
	}
	return posixExportPrefix + key + "=" + quotePOSIX(value)
}

// Quote renders s as one literal word in the dialect.
func (d Dialect) Quote(s string) string {
	if d == DialectFish {
		return quoteFish(s)
	}
	return quotePOSIX(s)
}

// Encode renders vars in order, one assignment per line.
func (d Dialect) Encode(vars []EnvVar) string {
	var sb strings.Builder
	for _, v := range vars {
		sb.WriteString(d.Line(v.Key, v.Value))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EncodeMap renders vars sorted by key.
func (d Dialect) EncodeMap(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	list := make([]EnvVar, 0, len(keys))
	for _, k := range keys {
		list = append(list, EnvVar{Key: k, Value: vars[k]})
	}
	return d.Encode(list)
}

// Decode parses file content written in the dialect back into variables.
// Comments and blank lines are ignored.
func (d Dialect) Decode(content string) (map[string]string, error) {
	if d == DialectFish {
		return decodeFish(content)
	}
	return decodePOSIX(content)
}

// quotePOSIX single-quotes s. A literal quote closes the string, emits an
// escaped quote and reopens it.
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s. Fish honors \' and \\ inside single quotes.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

// decodePOSIX parses the content as shell and recovers the literal value of
// every exported or plain assignment.
func decodePOSIX(content string) (map[string]string, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(content), "")
	if err != nil {
		return nil, fmt.Errorf("parse shell syntax: %w", err)
	}

	vars := make(map[string]string)
	syntax.Walk(file, func(node syntax.Node) bool {
		var assigns []*syntax.Assign

		switch n := node.(type) {
		case *syntax.DeclClause:
			if n.Variant == nil || n.Variant.Value != "export" {
				return true
			}
			assigns = n.Args
		case *syntax.CallExpr:
			// FOO=bar cmd only sets FOO for cmd.
			if len(n.Args) > 0 {
				return true
			}
			assigns = n.Assigns
		default:
			return true
		}

		for _, as := range assigns {
			if as.Name == nil || as.Naked || as.Array != nil || as.Index != nil {
				continue
			}
			value, ok := literalWord(as.Value)
			if !ok {
				continue
			}
			vars[as.Name.Value] = value
		}
		return false
	})

	return vars, nil
}

// literalWord removes shell quoting from w. Words that need expansion
// (parameters, command substitution, ANSI-C strings) are not literal.
func literalWord(w *syntax.Word) (string, bool) {
	if w == nil {
		return "", true
	}

	var b strings.Builder
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(unescapeUnquoted(p.Value))
		case *syntax.SglQuoted:
			if p.Dollar {
				return "", false
			}
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return "", false
				}
				b.WriteString(unescapeDoubleQuoted(lit.Value))
			}
		default:
			return "", false
		}
	}
	return b.String(), true
}

// unescapeUnquoted drops the backslash in front of any character.
func unescapeUnquoted(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// unescapeDoubleQuoted drops the backslash only before $ ` " and \.
func unescapeDoubleQuoted(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\", s[i+1]) >= 0 {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// decodeFish reads set -gx assignments line by line.
func decodeFish(content string) (map[string]string, error) {
	vars := make(map[string]string)

	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rest, ok := strings.CutPrefix(line, fishSetPrefix)
		if !ok {
			continue
		}
		rest = strings.TrimLeft(rest, " \t")

		key, raw := rest, ""
		if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
			key, raw = rest[:idx], strings.TrimLeft(rest[idx:], " \t")
		}
		if key == "" {
			continue
		}

		value, err := readFishWord(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", i+1, key, err)
		}
		vars[key] = value
	}

	return vars, nil
}

// readFishWord returns the first word of s with fish quoting removed.
func readFishWord(s string) (string, error) {
	if s == "" {
		return "", nil
	}

	var b strings.Builder

	switch s[0] {
	case '\'':
		for i := 1; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\'):
				i++
				b.WriteByte(s[i])
			case c == '\'':
				return b.String(), nil
			default:
				b.WriteByte(c)
			}
		}
		return "", errUnterminatedQuote

	case '"':
		for i := 1; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s) && strings.IndexByte(`"\$`, s[i+1]) >= 0:
				i++
				b.WriteByte(s[i])
			case c == '"':
				return b.String(), nil
			default:
				b.WriteByte(c)
			}
		}
		return "", errUnterminatedQuote

	default:
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case c == ' ' || c == '\t' || c == '#':
				return b.String(), nil
			default:
				b.WriteByte(c)
			}
		}
		return b.String(), nil
	}
}
