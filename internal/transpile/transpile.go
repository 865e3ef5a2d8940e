package transpile

import (
	"fmt"
	"regexp"
	"strings"

	"evergreen/internal/ast"
	"evergreen/internal/diag"
	"evergreen/internal/source"
)

const indentUnit = "    "

var (
	localInit = regexp.MustCompile(`= (.*)$`)

	// call formatting: WorldEdit pads argument lists with one space
	setOpen   = regexp.MustCompile(`= (\w+)\((\S)`)
	callOpen  = regexp.MustCompile(`call (\w+)\((\S)`)
	callClose = regexp.MustCompile(`(\S)\)$`)
	emptyCall = regexp.MustCompile(`\( \)$`)

	skinArg       = regexp.MustCompile(`, (\w+|FourCC\("[^"]+"\))\s?\)`)
	fourCC        = regexp.MustCompile(`FourCC\("([^"]+)"\)`)
	createUnit    = regexp.MustCompile(`CreateUnit\( p, '([a-zA-Z0-9]{4})'`)
	dropCallback  = regexp.MustCompile(`, ((?:Unit|ItemTable)\d+_DropItems)\b`)
	notEqual      = regexp.MustCompile(`~=`)
	nilLiteral    = regexp.MustCompile(`\bnil\b`)
	downgradeSkin = regexp.MustCompile(`BlzCreateUnitWithSkin\(([^\n]+),\s*'[^']+'\s*\)`)
)

// Transpiler converts captured function bodies. The zero value uses no unit
// catalog and reports nothing, but still needs Types to accept locals.
type Transpiler struct {
	Types    LocalTypes
	Units    *UnitCatalog
	Reporter diag.Reporter
}

// New returns a Transpiler with the default local types.
func New(units *UnitCatalog, r diag.Reporter) *Transpiler {
	return &Transpiler{Types: DefaultLocalTypes(), Units: units, Reporter: r}
}

// Function converts fn to Dialect-J text ready for splicing.
func (t *Transpiler) Function(fn *ast.FuncDecl) (string, error) {
	if !fn.NeedsTranspile() {
		return Downgrade(fn.Source), nil
	}
	out, err := t.transpile(fn.Source, fn.Loc)
	if err != nil {
		return "", fmt.Errorf("function %s: %w", fn.Name, err)
	}
	return out, nil
}

// Transpile rewrites one Dialect-L function. The first line must be the
// declaration ending in "()", the last the closing "end".
func (t *Transpiler) Transpile(src string) (string, error) {
	return t.transpile(src, source.Span{})
}

// Downgrade replaces natives that the target engine lacks in a Dialect-J
// body.
func Downgrade(src string) string {
	return downgradeSkin.ReplaceAllString(src, "CreateUnit($1)")
}

func (t *Transpiler) transpile(src string, loc source.Span) (string, error) {
	lines := source.SplitLines(strings.TrimRight(src, "\r\n"))
	lines[0] = strings.TrimSuffix(strings.TrimRight(lines[0], " \t"), "()") + " takes nothing returns nothing"
	if len(lines) == 1 {
		return lines[0], nil
	}
	indent := 1
	for i := 1; i < len(lines)-1; i++ {
		line, err := t.line(lines[i], &indent, i+1)
		if err != nil {
			return "", err
		}
		lines[i] = t.rewrite(line, loc)
	}
	lines[len(lines)-1] = "endfunction"
	return strings.Join(lines, source.CRLF), nil
}

func pad(level int) string {
	if level < 0 {
		level = 0
	}
	return strings.Repeat(indentUnit, level)
}

// line converts the structure of one body line; call-site rewrites are
// applied afterwards by rewrite.
func (t *Transpiler) line(raw string, indent *int, lineNo int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "//"):
		return raw, nil
	case strings.HasPrefix(trimmed, "--"):
		return pad(*indent) + "//" + strings.TrimPrefix(trimmed, "--"), nil
	case trimmed == "end":
		*indent--
		return pad(*indent) + "endif", nil
	case trimmed == "else":
		return pad(*indent-1) + "else", nil
	case strings.HasPrefix(trimmed, "elseif "):
		return pad(*indent-1) + trimmed, nil
	case strings.HasPrefix(trimmed, "local "):
		return t.local(trimmed, *indent, lineNo)
	case strings.HasPrefix(trimmed, "if "):
		out := pad(*indent) + trimmed
		*indent++
		return out, nil
	case strings.Contains(trimmed, "="):
		out := pad(*indent) + "set " + trimmed
		out = replaceFirst(setOpen, out, "= ${1}( ${2}")
		return closeCall(out), nil
	default:
		out := pad(*indent) + "call " + trimmed
		out = replaceFirst(callOpen, out, "call ${1}( ${2}")
		return closeCall(out), nil
	}
}

func (t *Transpiler) local(trimmed string, indent, lineNo int) (string, error) {
	name, _, _ := strings.Cut(strings.TrimPrefix(trimmed, "local "), " ")
	typ, ok := t.Types.lookup(name)
	if !ok {
		return "", &LocalTypeError{Name: name, Line: lineNo}
	}
	init := ""
	if m := localInit.FindString(trimmed); m != "" {
		init = " " + m
	}
	return pad(indent) + "local " + typ + " " + name + init, nil
}

func closeCall(s string) string {
	s = replaceFirst(callClose, s, "${1} )")
	return replaceFirst(emptyCall, s, "(  )")
}

// rewrite applies the call-site substitutions to one converted line.
func (t *Transpiler) rewrite(line string, loc source.Span) string {
	if strings.Contains(line, "BlzCreateUnitWithSkin") {
		line = strings.Replace(line, "BlzCreateUnitWithSkin", "CreateUnit", 1)
		line = replaceFirst(skinArg, line, " )")
	}
	line = fourCC.ReplaceAllString(line, "'$1'")
	if strings.Contains(line, "SetEnemyStartLocPrio(") || strings.Contains(line, "SetEnemyStartLocPrioCount(") {
		return ""
	}
	line = createUnit.ReplaceAllStringFunc(line, func(m string) string {
		code := createUnit.FindStringSubmatch(m)[1]
		return "CreateUnit( p, '" + t.unit(code, loc) + "'"
	})
	if dropCallback.MatchString(line) {
		line = dropCallback.ReplaceAllString(line, ", function $1")
		diag.ReportInfo(t.Reporter, diag.TrnDropItemsRewired, loc,
			"drop-item callback passed as function reference: "+strings.TrimSpace(line)).Emit()
	}
	line = notEqual.ReplaceAllString(line, "!=")
	return nilLiteral.ReplaceAllString(line, "null")
}

func (t *Transpiler) unit(code string, loc source.Span) string {
	out, res := t.Units.Resolve(code)
	switch res {
	case UnitReplaced:
		diag.ReportInfo(t.Reporter, diag.TrnUnitReplaced, loc,
			fmt.Sprintf("unit '%s' replaced by '%s'", code, out)).Emit()
	case UnitMissing:
		diag.ReportWarning(t.Reporter, diag.TrnUnitMissing, loc,
			fmt.Sprintf("unit '%s' not found and has no substitute", code)).Emit()
	}
	return out
}

// replaceFirst replaces only the leftmost match of re.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, loc)
	return s[:loc[0]] + string(dst) + s[loc[1]:]
}
