// Package title expands tab title format strings.
//
// A format string is plain text plus tokens: %n is the profile name,
// %t the content window's current title, %w the base name of the tab's
// working directory, and %% a literal percent sign. Unknown tokens and
// a trailing lone percent are kept verbatim, so a typo degrades into
// visible text instead of an error.
package title

import (
	"path/filepath"
	"strings"
)

// DefaultFormat shows the profile name.
const DefaultFormat = "%n"

// Context carries the data the format tokens draw from.
type Context struct {
	ProfileName      string
	WorkingDirectory string
	WindowTitle      string
}

// Expand substitutes the format tokens from ctx. It never fails; the
// caller decides what to do with an empty result.
func Expand(format string, ctx Context) string {
	var b strings.Builder
	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			b.WriteByte('%')
			break
		}

		i++
		switch format[i] {
		case 'n':
			b.WriteString(ctx.ProfileName)
		case 't':
			b.WriteString(ctx.WindowTitle)
		case 'w':
			b.WriteString(workdirBase(ctx.WorkingDirectory))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(format[i])
		}
	}

	return b.String()
}

func workdirBase(dir string) string {
	if dir == "" {
		return ""
	}
	return filepath.Base(dir)
}
