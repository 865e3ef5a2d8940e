package dialect

import "testing"

const jassSample = `globals
    rect gg_rct_Center = null
endglobals

function CreateAllUnits takes nothing returns nothing
    call CreateNeutralHostile(  )
    if ( udg_DEAD_CODE == true ) then
        set udg_x = 1
    endif
endfunction
`

const luaSample = `function CreateAllUnits()
    local p = Player(0)
    if u ~= nil then
        u = BlzCreateUnitWithSkin(p, FourCC("hfoo"), 0.0, 0.0, 270.0, FourCC("hfoo"))
    end
end
`

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{"jass", jassSample, Jass},
		{"lua", luaSample, Lua},
		{"empty", "", Unknown},
		{"prose", "hello world\n", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text).Kind; got != tt.want {
				t.Fatalf("Detect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePrefersExplicitThenExtension(t *testing.T) {
	if got := Resolve(Lua, "war3map.j", jassSample); got != Lua {
		t.Fatalf("explicit kind ignored: %v", got)
	}
	if got := Resolve(Unknown, "maps/war3map.lua", jassSample); got != Lua {
		t.Fatalf("extension ignored: %v", got)
	}
	if got := Resolve(Unknown, "stdin", luaSample); got != Lua {
		t.Fatalf("content detection failed: %v", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"jass2", Jass, false},
		{"LUA", Lua, false},
		{"auto", Unknown, false},
		{"python", Unknown, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Parse(%q) = %v, %v", tt.in, got, err)
		}
	}
}
