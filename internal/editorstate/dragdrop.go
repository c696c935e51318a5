package editorstate

import "strings"

// ShellEscapePaths space-joins paths after shell-escaping each one, for
// insertion into a buffer or PTY input stream on file drop (spec.md
// §6: "shell-escaped (single-quoted with '\'' for internal quotes),
// space-joined").
func ShellEscapePaths(paths []string) string {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}
