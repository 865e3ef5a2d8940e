package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"evergreen/internal/dialect"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[project]
template = "prototype/war3map.j"

[meta]
language = "Spanish"

[data]
dir = "data"
cache = false

[merge]
lint = true
`)
	nested := filepath.Join(root, "latest-maps", "x")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if got, want := m.TemplatePath(), filepath.Join(root, "prototype", "war3map.j"); got != want {
		t.Errorf("template = %q, want %q", got, want)
	}
	if got, want := m.OutputDir(), filepath.Join(root, DefaultOutputDir); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if m.Config.Meta.Language != "Spanish" || m.Config.Meta.Version != DefaultVersion {
		t.Errorf("meta = %+v", m.Config.Meta)
	}
	if m.Config.Data.CacheEnabled() {
		t.Errorf("cache should be disabled")
	}
	if !m.Config.Merge.Lint || m.Config.Merge.Library {
		t.Errorf("merge = %+v", m.Config.Merge)
	}
}

func TestManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no template", "[project]\noutput = \"out\"\n", ErrTemplateMissing},
		{"escaping path", "[project]\ntemplate = \"../outside.j\"\n", ErrPathEscapes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := ReadManifest(path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), path) {
				t.Fatalf("error %q does not name the manifest", err)
			}
		})
	}

	path := filepath.Join(t.TempDir(), ManifestName)
	writeFile(t, path, "[project]\ntemplate = \"a.j\"\ntempalte = \"b.j\"\n")
	if _, err := ReadManifest(path); err == nil || !strings.Contains(err.Error(), "tempalte") {
		t.Fatalf("unknown key: err = %v", err)
	}
}

func TestBrandName(t *testing.T) {
	tests := []struct {
		base, version, want string
	}{
		{"(4)TurtleRock_v1.2", "Evergreen 10", "(4)TurtlRck_evrgrn10(1.26).w3x"},
		{"(2)EchoIsles_s3", "Evergreen 10", "(2)EchoIsls_evrgrn10(1.26).w3x"},
		{"XYZ", "Evergreen 9", "XYZ_evrgrn9(1.26).w3x"},
	}
	for _, tt := range tests {
		if got := BrandName(tt.base, tt.version); got != tt.want {
			t.Errorf("BrandName(%q, %q) = %q, want %q", tt.base, tt.version, got, tt.want)
		}
	}
}

func TestSanitizeRoundTrip(t *testing.T) {
	name := "(4)TurtlRck_evrgrn10(1.26).w3x"
	got := SanitizeName(name)
	if want := "4_TurtlRck_evrgrn10_312e3236.w3x"; got != want {
		t.Fatalf("SanitizeName = %q, want %q", got, want)
	}
	if back := UnsanitizeName(got); back != name {
		t.Fatalf("UnsanitizeName = %q, want %q", back, name)
	}
}

func TestMapTitleAndDate(t *testing.T) {
	if got := MapTitle("Turtle Rock v1.2", "Evergreen 10"); got != "Turtle Rock Evergreen 10" {
		t.Errorf("MapTitle = %q", got)
	}
	at := time.Date(2026, time.October, 19, 14, 3, 22, 0, time.FixedZone("X", 3*3600))
	if got := Date(at); got != "Mon Oct 19 11:03:22 2026" {
		t.Errorf("Date = %q", got)
	}
}

func TestColoredHash(t *testing.T) {
	d := HashBytes([]byte("abc"))
	if d.String() != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("digest = %s", d)
	}
	got := ColoredHash(d)
	if !strings.HasPrefix(got, "|cffffcc00ba7816bf|r|cff4682b48f01cfea|r|cffffcc00") {
		t.Fatalf("ColoredHash = %q", got)
	}
	if n := strings.Count(got, "|r"); n != 8 {
		t.Fatalf("groups = %d, want 8", n)
	}

	path := filepath.Join(t.TempDir(), "m.w3x")
	writeFile(t, path, "abc")
	fd, err := HashFile(path)
	if err != nil || fd != d {
		t.Fatalf("HashFile = %s, %v", fd, err)
	}
}

func TestDiscoverModules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "(2)Beta", "war3map.lua"), "function main()\nend\n")
	writeFile(t, filepath.Join(dir, "(2)Alpha", "war3map.j"), "function main takes nothing returns nothing\nendfunction\n")
	writeFile(t, filepath.Join(dir, "(2)Alpha", ModuleMetaName), "[map]\nname = \"Alpha Isles v2\"\nauthor = \"Blizzard\"\n")
	writeFile(t, filepath.Join(dir, "(2)Alpha.w3x"), "archive")
	writeFile(t, filepath.Join(dir, "empty", "readme.txt"), "")
	writeFile(t, filepath.Join(dir, "both", "war3map.j"), "")
	writeFile(t, filepath.Join(dir, "both", "war3map.lua"), "")

	mods, err := DiscoverModules(dir)
	if !errors.Is(err, ErrDialectConflict) {
		t.Fatalf("err = %v, want ErrDialectConflict", err)
	}
	if len(mods) != 2 {
		t.Fatalf("modules = %d, want 2", len(mods))
	}
	alpha, beta := mods[0], mods[1]
	if alpha.Name != "(2)Alpha" || alpha.Dialect != dialect.Jass || alpha.Meta.Name != "Alpha Isles v2" {
		t.Errorf("alpha = %+v", alpha)
	}
	if alpha.HashPath() != filepath.Join(dir, "(2)Alpha.w3x") {
		t.Errorf("alpha hash path = %s", alpha.HashPath())
	}
	if beta.Dialect != dialect.Lua || beta.Meta.Name != "(2)Beta" || beta.HashPath() != beta.Script {
		t.Errorf("beta = %+v", beta)
	}
}

func TestOpenModuleExplicitDialect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "m")
	writeFile(t, filepath.Join(dir, "war3map.j"), "")
	writeFile(t, filepath.Join(dir, "war3map.lua"), "")
	m, err := OpenModule(dir, dialect.Lua)
	if err != nil {
		t.Fatalf("OpenModule: %v", err)
	}
	if m.Dialect != dialect.Lua || filepath.Base(m.Script) != "war3map.lua" {
		t.Fatalf("module = %+v", m)
	}
	if _, err := OpenModule(t.TempDir(), dialect.Jass); !errors.Is(err, ErrNoScript) {
		t.Fatalf("err = %v, want ErrNoScript", err)
	}
}
