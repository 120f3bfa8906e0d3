package parsers

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/haukened/rr-names/internal/names/common/log"
	"github.com/haukened/rr-names/internal/names/domain"
)

const sampleYAML = `
# reserved names
all:
  - admin
  - Admin      # duplicate after lowercasing
  - test*
  - /mail
  - /null
mail:
  - postmaster
  - abuse
"null":  # quoted, a bare null key is the YAML null
  - "null"
empty:
`

func raws(t *testing.T, bl *domain.Blacklist, collection string) []string {
	t.Helper()
	entries, ok := bl.Collection(collection)
	if !ok {
		t.Fatalf("missing collection %q", collection)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Raw)
	}
	return out
}

func TestParseBytes_YAML(t *testing.T) {
	bl, err := ParseBytes([]byte(sampleYAML), FormatYAML, "sample", log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	if got := bl.Collections(); !reflect.DeepEqual(got, []string{"all", "empty", "mail", "null"}) {
		t.Fatalf("Collections() = %v", got)
	}
	if got := raws(t, bl, "all"); !reflect.DeepEqual(got, []string{"admin", "test*", "/mail", "/null"}) {
		t.Fatalf("all = %v", got)
	}
	if got := raws(t, bl, "empty"); len(got) != 0 {
		t.Fatalf("empty = %v", got)
	}
}

func TestParseBytes_JSONAndTOML(t *testing.T) {
	jsonDoc := `{"all": ["admin", "/mail"], "mail": ["postmaster"]}`
	tomlDoc := "all = [\"admin\", \"/mail\"]\nmail = [\"postmaster\"]\n"

	for format, doc := range map[Format]string{FormatJSON: jsonDoc, FormatTOML: tomlDoc} {
		bl, err := ParseBytes([]byte(doc), format, string(format), log.NewNoopLogger())
		if err != nil {
			t.Fatalf("%s: ParseBytes: %v", format, err)
		}
		if got := raws(t, bl, "all"); !reflect.DeepEqual(got, []string{"admin", "/mail"}) {
			t.Fatalf("%s: all = %v", format, got)
		}
	}
}

func TestParseBytes_Malformed(t *testing.T) {
	tests := map[string]string{
		"syntax":        "all: [admin",
		"scalar value":  "all: admin\n",
		"mapping value": "all:\n  nested: x\n",
		"non-string":    "all:\n  - 42\n",
		"empty entry":   "all:\n  - \"\"\n",
		"bare slash":    "all:\n  - /\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(doc), FormatYAML, name, log.NewNoopLogger()); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestParseBytes_ReferenceErrors(t *testing.T) {
	_, err := ParseBytes([]byte("all:\n  - /missing\n"), FormatYAML, "dangling", log.NewNoopLogger())
	if !errors.Is(err, domain.ErrDanglingReference) {
		t.Fatalf("err=%v; want ErrDanglingReference", err)
	}
	_, err = ParseBytes([]byte("a:\n  - /b\nb:\n  - /a\n"), FormatYAML, "cycle", log.NewNoopLogger())
	if !errors.Is(err, domain.ErrReferenceCycle) {
		t.Fatalf("err=%v; want ErrReferenceCycle", err)
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("error should name the source: %v", err)
	}
}

func TestParseBytes_UnknownFormat(t *testing.T) {
	if _, err := ParseBytes([]byte("{}"), Format("ini"), "x", log.NewNoopLogger()); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.yml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	bl, err := ParseFile(path, log.NewNoopLogger())
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got := raws(t, bl, "mail"); !reflect.DeepEqual(got, []string{"postmaster", "abuse"}) {
		t.Fatalf("mail = %v", got)
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.yaml"), log.NewNoopLogger()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := ParseFile(filepath.Join(dir, "names.txt"), log.NewNoopLogger()); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
		"a.toml": FormatTOML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("a.db"); err == nil {
		t.Errorf("expected error for .db")
	}
}

func TestToEntryStrings(t *testing.T) {
	got, err := toEntryStrings("c", []string{"a", "b"})
	if err != nil || !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("[]string input: %v %v", got, err)
	}
	got, err = toEntryStrings("c", nil)
	if err != nil || got != nil {
		t.Fatalf("nil input: %v %v", got, err)
	}
}
