package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/resp"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatRaw, false},
		{"raw", FormatRaw, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"table", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json should give JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml should give YAMLFormatter")
	}
	if _, ok := NewFormatter(FormatRaw).(*RawFormatter); !ok {
		t.Error("raw should give RawFormatter")
	}
}

func TestRenderToken(t *testing.T) {
	tests := []struct {
		name string
		tok  resp.Token
		want string
	}{
		{"bulk", resp.Bulk("bar"), `"bar"`},
		{"bulk quotes", resp.Bulk(`a"b`), `"a\"b"`},
		{"status", resp.OK, "OK"},
		{"nil", resp.Null(), "(nil)"},
		{"integer", resp.Integer(-5), "(integer) -5"},
		{"error", resp.Error("ERR no command"), "(error) ERR no command"},
		{"command", resp.Recognized(resp.CommandGet, "get"), `"get"`},
		{"empty array", resp.Array(), "(empty array)"},
		{"array", resp.Array(resp.Bulk("a"), resp.Integer(1)), "1) \"a\"\n2) (integer) 1"},
		{
			"nested",
			resp.Array(resp.Bulk("a"), resp.Array(resp.Bulk("b"), resp.Bulk("c"))),
			"1) \"a\"\n2) 1) \"b\"\n   2) \"c\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderToken(tt.tok); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &RawFormatter{}

	if err := f.Format(&buf, resp.Bulk("x")); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\"x\"\n" {
		t.Errorf("token = %q", buf.String())
	}

	buf.Reset()
	tbl := NewTable("METRIC", "VALUE")
	tbl.AddRow("requests", "10")
	tbl.AddRow("p99")
	if err := f.Format(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "METRIC") || !strings.Contains(buf.String(), "requests  10") {
		t.Errorf("table = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "p99       -") {
		t.Errorf("short row not padded: %q", buf.String())
	}
}

func TestJSONFormatter_Token(t *testing.T) {
	var buf bytes.Buffer
	tok := resp.Array(resp.Bulk("a"), resp.Null(), resp.Integer(3))
	if err := (&JSONFormatter{}).Format(&buf, tok); err != nil {
		t.Fatal(err)
	}

	var got Reply
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "array" || len(got.Items) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Items[0].Type != "string" || got.Items[0].Value != "a" {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.Items[1].Type != "nil" {
		t.Errorf("item 1 = %+v", got.Items[1])
	}
	if got.Items[2].Type != "integer" || got.Items[2].Value != float64(3) {
		t.Errorf("item 2 = %+v", got.Items[2])
	}
}

func TestYAMLFormatter_Token(t *testing.T) {
	var buf bytes.Buffer
	if err := (&YAMLFormatter{}).Format(&buf, resp.Error("ERR boom")); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["type"] != "error" || got["value"] != "ERR boom" {
		t.Errorf("got %v", got)
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf, "bench", 200)

	p.Increment(1)
	if buf.Len() != 0 {
		t.Errorf("redrew below one percent: %q", buf.String())
	}
	p.Increment(1)
	if !strings.Contains(buf.String(), "(2/200)") {
		t.Errorf("render = %q", buf.String())
	}

	p.Increment(198)
	p.Finish()
	if !strings.Contains(buf.String(), "100%") || !strings.HasSuffix(buf.String(), "\n") {
		t.Errorf("final = %q", buf.String())
	}
	if p.Current() != 200 {
		t.Errorf("Current = %d", p.Current())
	}
}
