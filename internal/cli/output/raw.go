package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/respkv/internal/resp"
)

// RawFormatter prints replies the way redis-cli does:
//
//	"bar"
//	(nil)
//	(integer) 5
//	(error) ERR ...
//	1) "a"
//
// Tables are rendered as aligned columns and anything else with %v.
type RawFormatter struct{}

// Format writes data followed by a newline.
func (f *RawFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case resp.Token:
		_, err := io.WriteString(w, RenderToken(v)+"\n")
		return err
	case *resp.Token:
		_, err := io.WriteString(w, RenderToken(*v)+"\n")
		return err
	case *Table:
		return v.Render(w)
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// RenderToken renders t without a trailing newline.
func RenderToken(t resp.Token) string {
	var sb strings.Builder
	renderToken(&sb, t.Literal(), "")
	return sb.String()
}

func renderToken(sb *strings.Builder, t resp.Token, indent string) {
	switch t.Kind {
	case resp.KindNull:
		sb.WriteString("(nil)")
	case resp.KindInteger:
		sb.WriteString("(integer) " + strconv.FormatInt(t.Int, 10))
	case resp.KindError:
		sb.WriteString("(error) " + t.Str)
	case resp.KindSimpleString:
		sb.WriteString(t.Str)
	case resp.KindBulkString:
		sb.WriteString(strconv.Quote(t.Str))
	case resp.KindArray:
		if len(t.Elems) == 0 {
			sb.WriteString("(empty array)")
			return
		}
		width := len(strconv.Itoa(len(t.Elems)))
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString("\n" + indent)
			}
			prefix := fmt.Sprintf("%*d) ", width, i+1)
			sb.WriteString(prefix)
			renderToken(sb, e, indent+strings.Repeat(" ", len(prefix)))
		}
	}
}
