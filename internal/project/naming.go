package project

import (
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

const engineSuffix = "(1.26)"

var (
	revisionSuffix = regexp.MustCompile(`_v\d+(.\d+)?$`)
	seasonSuffix   = regexp.MustCompile(`_s\d+$`)
	nonAlnum       = regexp.MustCompile(`[^a-z0-9]`)
	evergreenWord  = regexp.MustCompile(`(?i)evergreen_`)
	dropFromMiddle = regexp.MustCompile(`[aeiou]|[^a-zA-Z0-9.]`)
	titleRevision  = regexp.MustCompile(` v\d+(\.\d+)?$`)

	playersPrefix  = regexp.MustCompile(`^\((\d+)\)`)
	engineParen    = regexp.MustCompile(`\(([.\d]+)\)\.w3x$`)
	sanitizedPre   = regexp.MustCompile(`^(\d+)_`)
	sanitizedParen = regexp.MustCompile(`_([a-f0-9]+)\.w3x$`)
)

// SnakeCase lowercases s and replaces every non-alphanumeric byte with '_'.
func SnakeCase(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "_")
}

// BrandName shortens a module folder name and tags it with the project
// version: "(4)TurtleRock_v1.2" with "Evergreen 10" becomes
// "(4)TurtlRck_evrgrn10(1.26).w3x".
func BrandName(base, version string) string {
	base = revisionSuffix.ReplaceAllString(base, "")
	base = seasonSuffix.ReplaceAllString(base, "")
	if i := strings.IndexAny(base, "aeiou"); i >= 0 && len(base) > i+1 {
		// keep through the first vowel and the last character
		middle := base[i+1 : len(base)-1]
		base = base[:i+1] + dropFromMiddle.ReplaceAllString(middle, "") + base[len(base)-1:]
	}
	version = evergreenWord.ReplaceAllString(SnakeCase(version), "evrgrn")
	return base + "_" + version + engineSuffix + ".w3x"
}

// SanitizeName makes a branded name safe for file systems and hosting
// tools that reject parentheses.
func SanitizeName(name string) string {
	name = playersPrefix.ReplaceAllString(name, "${1}_")
	return replaceSubmatch(engineParen, name, func(v string) string {
		return "_" + hex.EncodeToString([]byte(v)) + ".w3x"
	})
}

// UnsanitizeName reverses SanitizeName.
func UnsanitizeName(name string) string {
	name = sanitizedPre.ReplaceAllString(name, "(${1})")
	return replaceSubmatch(sanitizedParen, name, func(v string) string {
		raw, err := hex.DecodeString(v)
		if err != nil {
			return "_" + v + ".w3x"
		}
		return "(" + string(raw) + ").w3x"
	})
}

func replaceSubmatch(re *regexp.Regexp, s string, fn func(string) string) string {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	return s[:m[0]] + fn(s[m[2]:m[3]]) + s[m[1]:]
}

// MapTitle is the module name without its revision, tagged with version.
func MapTitle(name, version string) string {
	return titleRevision.ReplaceAllString(name, "") + " " + version
}

// DateLayout is the generation date shown in the script header.
const DateLayout = "Mon Jan 2 15:04:05 2006"

// Date formats t in UTC.
func Date(t time.Time) string { return t.UTC().Format(DateLayout) }
