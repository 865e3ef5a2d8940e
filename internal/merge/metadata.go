package merge

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Metadata are the texts substituted into the template's fixed markers.
type Metadata struct {
	// Module texts, as found in the module's string table.
	Name   string
	Author string
	// EditorVersion is the editor build the module was saved with.
	EditorVersion string
	// HashDisplay is the colored hash string shown in the credits quest.
	HashDisplay string

	// Project texts.
	Generator     string
	Version       string // e.g. "Evergreen 10"
	Date          string
	ProjectAuthor string
	Language      string
	AIVersion     string
}

func (m Metadata) normalized() Metadata {
	for _, s := range []*string{&m.Name, &m.Author, &m.EditorVersion, &m.Generator, &m.Version,
		&m.Date, &m.ProjectAuthor, &m.Language, &m.AIVersion} {
		*s = norm.NFC.String(*s)
	}
	return m
}

// lastWord returns the version number of "Evergreen 10".
func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// escapeString escapes s for use inside a Dialect-J string literal.
func escapeString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

type metaAnchor struct {
	name string
	re   *regexp.Regexp
	// header anchors are searched only above the globals block
	header bool
	render func(Metadata) string
}

const jassString = `"(?:[^"\\\r\n]|\\.)*"`

func questAnchor(name, variable string, render func(Metadata) string) metaAnchor {
	return metaAnchor{
		name: name,
		re:   regexp.MustCompile(`(set ` + regexp.QuoteMeta(variable) + ` = )` + jassString),
		render: func(m Metadata) string {
			return `"` + escapeString(render(m)) + `"`
		},
	}
}

func headerAnchor(name, pattern string, render func(Metadata) string) metaAnchor {
	return metaAnchor{name: name, re: regexp.MustCompile(pattern), header: true, render: render}
}

var metaAnchors = []metaAnchor{
	questAnchor("quest author", "udg_MetaTextQuestAuthor[5]", func(m Metadata) string {
		return "- |cffffcc00" + m.Language + "|r localization."
	}),
	questAnchor("quest credits 1", "udg_MetaTextQuestCredits[1]", func(m Metadata) string {
		return "|cffffcc00" + m.Name + "|r is a map made by |cffffcc00" + m.Author + "|r."
	}),
	questAnchor("quest credits 2", "udg_MetaTextQuestCredits[2]", func(m Metadata) string {
		return "|cff32cd32Project Evergreen|r |cffffcc00v" + lastWord(m.Version) + "|r includes:"
	}),
	questAnchor("quest credits 10", "udg_MetaTextQuestCredits[10]", func(m Metadata) string {
		return "|cffffcc00" + m.Name + "|r's (WorldEdit version |cffffcc00" + m.EditorVersion + "|r) hash (|cff4682b4sha256|r):"
	}),
	questAnchor("quest credits 11", "udg_MetaTextQuestCredits[11]", func(m Metadata) string {
		return m.HashDisplay
	}),
	questAnchor("quest credits 14", "udg_MetaTextQuestCredits[14]", func(m Metadata) string {
		return m.AIVersion
	}),
	headerAnchor("banner", `(?m)^// \w[^\r\n]*`, func(m Metadata) string {
		return "// " + m.Name + " " + m.Version + " (for 1.26)"
	}),
	headerAnchor("Generated by", `Generated by [^\r\n]+`, func(m Metadata) string {
		return "Generated by " + m.Generator
	}),
	headerAnchor("Date", `Date: [^\r\n]+`, func(m Metadata) string {
		return "Date: " + m.Date
	}),
	headerAnchor("Map Author", `Map Author: [^\r\n]+`, func(m Metadata) string {
		return "Map Author: " + m.ProjectAuthor
	}),
}

var globalsLine = regexp.MustCompile(`(?m)^globals\r?$`)

// headerEnd is the offset of the globals block, or len(text).
func headerEnd(text string) int {
	if loc := globalsLine.FindStringIndex(text); loc != nil {
		return loc[0]
	}
	return len(text)
}

// Meta substitutes every metadata marker. A marker that does not match
// exactly once fails the step with ErrMarkerCardinality.
func Meta(text string, meta Metadata) (string, error) {
	meta = meta.normalized()
	for _, a := range metaAnchors {
		scope := len(text)
		if a.header {
			scope = headerEnd(text)
		}
		locs := a.re.FindAllStringSubmatchIndex(text[:scope], -1)
		if len(locs) != 1 {
			return "", cardinalityError("metadata", a.name, len(locs))
		}
		loc := locs[0]
		start := loc[0]
		if len(loc) >= 4 && loc[2] >= 0 {
			// keep the "set X = " prefix
			start = loc[3]
		}
		text = text[:start] + a.render(meta) + text[loc[1]:]
	}
	return text, nil
}
