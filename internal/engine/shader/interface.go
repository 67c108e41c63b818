package shader

import (
	"regexp"
	"strings"
)

var layoutQualifier = regexp.MustCompile(`layout\s*\([^)]*\)`)

// Qualifiers that may sit between the storage keyword and the type.
var skipped = map[string]bool{
	"lowp": true, "mediump": true, "highp": true,
	"flat": true, "smooth": true, "noperspective": true,
	"centroid": true, "invariant": true, "const": true,
}

// ParseInterface scans GLSL source for vertex inputs (in / attribute) and
// uniforms and returns their names in declaration order. Preprocessor lines,
// comments and layout qualifiers are ignored, and array suffixes are stripped.
//
// Every "in" is reported, so callers should only read attributes from a
// vertex stage.
func ParseInterface(src string) (attributes, uniforms []string) {
	for _, line := range strings.Split(src, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = layoutQualifier.ReplaceAllString(line, " ")

		for _, stmt := range strings.Split(line, ";") {
			fields := strings.Fields(strings.ReplaceAll(stmt, ",", " , "))
			for len(fields) > 0 && skipped[fields[0]] {
				fields = fields[1:]
			}
			if len(fields) == 0 {
				continue
			}

			var dst *[]string
			switch fields[0] {
			case "uniform":
				dst = &uniforms
			case "in", "attribute":
				dst = &attributes
			default:
				continue
			}

			fields = fields[1:]
			for len(fields) > 0 && skipped[fields[0]] {
				fields = fields[1:]
			}
			if len(fields) < 2 || strings.Contains(stmt, "{") {
				continue // block declarations are not supported
			}

			for _, name := range fields[1:] {
				if name == "," {
					continue
				}
				if i := strings.IndexByte(name, '['); i >= 0 {
					name = name[:i]
				}
				if i := strings.IndexByte(name, '='); i >= 0 {
					name = name[:i]
				}
				if name != "" {
					*dst = append(*dst, name)
				}
			}
		}
	}
	return attributes, uniforms
}
