package objdata

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFlattenLayerPrecedence(t *testing.T) {
	layers := []Layer{
		{Name: "UnitBalance.csv", Records: []Record{{"unitBalanceID": "u001", "goldcost": "10"}}},
		{Name: "xUnitBalance.csv", Records: []Record{{"unitBalanceID": "u001", "goldcost": ""}}},
		{Name: "pUnitBalance.csv", Records: []Record{{"unitBalanceID": "u001", "goldcost": "   ", "lumbercost": 5.0}}},
	}
	tbl, err := Flatten("UnitBalance", layers)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	rec, ok := tbl.Get("u001")
	if !ok {
		t.Fatalf("u001 missing")
	}
	if got := rec.String("goldcost"); got != "10" {
		t.Fatalf("goldcost = %q, want \"10\"", got)
	}
	if got, _ := rec.Number("lumbercost"); got != 5 {
		t.Fatalf("lumbercost = %v", got)
	}
}

func TestFlattenIdempotent(t *testing.T) {
	layers := []Layer{
		{Name: "a", Records: []Record{
			{"unitBalanceID": "hkee", "goldcost": 320.0, "isbldg": "SYLK_TRUE"},
			{"unitBalanceID": "htow", "goldcost": 385.0, "defType": "SYLK_#VALUE!"},
		}},
		{Name: "b", Records: []Record{{"unitBalanceID": "hkee", "goldcost": 360.0}}},
	}
	first, err := Flatten("UnitBalance", layers)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	second, err := Flatten("UnitBalance", layers)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("flattening is not idempotent")
	}
	hkee, _ := first.Get("hkee")
	if hkee["isbldg"] != true || hkee[PrevKey] != "htow" {
		t.Fatalf("hkee = %v", hkee)
	}
	if v, ok := first.Get("htow"); !ok || v["defType"] != nil {
		t.Fatalf("htow = %v", v)
	}
	if layers[0].Records[0]["isbldg"] != "SYLK_TRUE" {
		t.Fatalf("input layers were modified")
	}
	if got := first.IDs(); strings.Join(got, ",") != "hkee,htow" {
		t.Fatalf("order = %v", got)
	}
}

func TestFlattenErrors(t *testing.T) {
	if _, err := Flatten("Nope", nil); err == nil {
		t.Fatalf("unknown table accepted")
	}
	_, err := Flatten("UnitData", []Layer{{Name: "UnitData.csv", Records: []Record{{"name": "x"}}}})
	if err == nil || !strings.Contains(err.Error(), "unitID") {
		t.Fatalf("err = %v", err)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		in, want any
	}{
		{"SYLK_TRUE", true},
		{"SYLK_FALSE", false},
		{"SYLK_#VALUE!", nil},
		{"foot", "foot"},
		{12.0, 12.0},
	}
	for _, tt := range tests {
		if got := Translate(tt.in); got != tt.want {
			t.Errorf("Translate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	recs, err := ReadCSV(strings.NewReader("unitID,movetp,speed\r\n0001,foot,270\r\nhfoo,,\r\n"), "unitID")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d", len(recs))
	}
	if recs[0]["unitID"] != "0001" || recs[0]["speed"] != 270.0 || recs[0]["movetp"] != "foot" {
		t.Fatalf("rec0 = %v", recs[0])
	}
	if recs[1]["movetp"] != "" {
		t.Fatalf("rec1 = %v", recs[1])
	}
}

func TestReadINI(t *testing.T) {
	src := "// comment\n[hfoo]\nArt=ReplaceableTextures\\CommandButtons\\BTNFootman.blp\nName=\"Footman\"\n\n[hkni]\nArt=BTNKnight.blp\n"
	recs, err := ReadINI(strings.NewReader(src), "unitFuncID")
	if err != nil {
		t.Fatalf("ReadINI: %v", err)
	}
	if len(recs) != 2 || recs[0]["unitFuncID"] != "hfoo" || recs[0]["Name"] != "Footman" {
		t.Fatalf("recs = %v", recs)
	}
	if recs[0]["Art"] != `ReplaceableTextures\CommandButtons\BTNFootman.blp` {
		t.Fatalf("art = %q", recs[0]["Art"])
	}
}

func TestLoadUsesCache(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("UnitBalance.csv", "unitBalanceID,goldcost,lumbercost\nhtow,385,185\nhkee,320,210\n")
	write("xUnitBalance.csv", "unitBalanceID,goldcost,lumbercost\nhkee,360,\n")
	write("HumanUnitFunc.txt", "[hfoo]\nArt=BTNFootman.blp\n")

	cache, err := OpenCacheDir(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	tables := []string{"UnitBalance", "UnitFunc", "UnitData"}
	fresh, hit, err := Load(dir, tables, cache)
	if err != nil || hit {
		t.Fatalf("first load: hit=%v err=%v", hit, err)
	}
	cached, hit, err := Load(dir, tables, cache)
	if err != nil || !hit {
		t.Fatalf("second load: hit=%v err=%v", hit, err)
	}
	for _, name := range tables {
		if !reflect.DeepEqual(fresh.Table(name).IDs(), cached.Table(name).IDs()) {
			t.Fatalf("%s ids differ", name)
		}
	}
	hkee, _ := cached.Table("UnitBalance").Get("hkee")
	if g, _ := hkee.Number("goldcost"); g != 360 {
		t.Fatalf("goldcost = %v", g)
	}
	if l, _ := hkee.Number("lumbercost"); l != 210 {
		t.Fatalf("lumbercost = %v", l)
	}
	if hkee.String(PrevKey) != "htow" {
		t.Fatalf("prev = %q", hkee.String(PrevKey))
	}
	if art, _ := cached.Table("UnitFunc").Get("hfoo"); art.String("Art") != "BTNFootman.blp" {
		t.Fatalf("UnitFunc = %v", art)
	}
	if cached.Table("UnitData").Len() != 0 {
		t.Fatalf("missing table should be empty")
	}
}
