package export

import "strings"

// Rendered is the terminal output of an export invocation: variable
// definitions for the .c file and matching extern declarations for the .h
// file. The caller decides paths and writes files.
type Rendered struct {
	Source string
	Header string
}

// SourceFile wraps the definitions in .c file boilerplate.
func (r Rendered) SourceFile() string {
	return "#include \"types.h\"\n\n" + r.Source + "\n"
}

// HeaderFile wraps the extern declarations in .h file boilerplate.
func (r Rendered) HeaderFile() string {
	return "#pragma once\n#include \"types.h\"\n\n" + r.Header + "\n"
}

func joinDecls(decls []string) string {
	return strings.Join(decls, "\n")
}
