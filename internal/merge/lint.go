package merge

import (
	"fmt"
	"regexp"
)

// invalidPatterns are idioms that produce wrong player indices once ported.
var invalidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`GetConvertedPlayerId\(([a-zA-Z0-9_ ()]+)\) \+ 1`),
}

// CheckPatterns fails on the first deny-listed idiom in any of texts.
func CheckPatterns(texts ...string) error {
	for _, text := range texts {
		for _, re := range invalidPatterns {
			if m := re.FindString(text); m != "" {
				return anchorError("patterns", m, fmt.Errorf("%w: matched %s", ErrInvalidPattern, re))
			}
		}
	}
	return nil
}

type rewrite struct {
	re    *regexp.Regexp
	repl  string
	first bool // replace only the first match
}

const objectNameLookup = "LoadStringBJ(GetUnitTypeId($1), 0, udg_RFObjectName)"

var readability = []rewrite{
	{re: regexp.MustCompile(`\( GetConvertedPlayerId\(([a-zA-Z0-9_ ()]+)\) - 1 \)`), repl: "( GetPlayerId($1) )"},
	{re: regexp.MustCompile(`"EVAL\(([^\r\n]+)\)"`), repl: "$1"},
	{re: regexp.MustCompile(`GetPlayerName\([^\r\n]+\) == "WorldEdit"`), repl: "false"},
	{re: regexp.MustCompile(`GetUnitName\(([\w-]+(?:\(\))?)\)`), repl: objectNameLookup, first: true},
	{re: regexp.MustCompile(`GetObjectName\(([\w-]+(?:\(\))?)\)`), repl: objectNameLookup, first: true},
	{re: regexp.MustCompile(`call MMD_DefineValue\(([^\r\n]+), 101, 101, 103 \)`),
		repl: "call MMD_DefineValue($1, MMD_TYPE_STRING, MMD_GOAL_NONE, MMD_SUGGEST_LEADERBOARD)"},
	{re: regexp.MustCompile(`call MMD_FlagPlayer\(([^\r\n]+ = )101\)`), repl: "call MMD_FlagPlayer(${1}MMD_FLAG_DRAWER)"},
	{re: regexp.MustCompile(`call MMD_FlagPlayer\(([^\r\n]+ = )102\)`), repl: "call MMD_FlagPlayer(${1}MMD_FLAG_LOSER)"},
	{re: regexp.MustCompile(`call MMD_FlagPlayer\(([^\r\n]+ = )103\)`), repl: "call MMD_FlagPlayer(${1}MMD_FLAG_WINNER)"},
	{re: regexp.MustCompile(`call MMD_FlagPlayer\(([^\r\n]+ = )104\)`), repl: "call MMD_FlagPlayer(${1}MMD_FLAG_LEAVER)"},
}

// Readability applies cosmetic rewrites that make the ported script easier
// to read and keep it independent of editor-only values.
func Readability(text string) string {
	for _, rw := range readability {
		if rw.first {
			text = replaceFirstExpand(rw.re, text, rw.repl)
			continue
		}
		text = rw.re.ReplaceAllString(text, rw.repl)
	}
	return text
}

func replaceFirstExpand(re *regexp.Regexp, s, repl string) string {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	dst := re.ExpandString(nil, repl, s, m)
	return s[:m[0]] + string(dst) + s[m[1]:]
}

var maxPlayerIndex = regexp.MustCompile(`(integer\s+udg_RFMaxPlayerIndex\s*=\s*)0\b`)

// MaxPlayers initialises udg_RFMaxPlayerIndex with bj_MAX_PLAYERS.
func MaxPlayers(text string) string {
	return replaceFirstExpand(maxPlayerIndex, text, "${1}bj_MAX_PLAYERS")
}
