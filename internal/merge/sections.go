package merge

import (
	"strings"

	"evergreen/internal/ir"
	"evergreen/internal/source"
)

// Section is a template region that receives captured functions.
type Section struct {
	Header    string
	Functions func(m *ir.Module) []string
}

func fixed(names ...string) func(*ir.Module) []string {
	return func(*ir.Module) []string { return names }
}

// Sections lists the template sections in splice order.
var Sections = []Section{
	{Header: "Unit Item Tables", Functions: func(m *ir.Module) []string { return m.DropTriggers }},
	{Header: "Unit Creation", Functions: fixed(
		"CreateNeutralHostile",
		"CreateNeutralPassiveBuildings",
		"CreateNeutralPassive",
		"CreatePlayerBuildings",
		"CreatePlayerUnits",
		"CreateAllUnits",
		"CreateRegions",
	)},
	{Header: "Players", Functions: fixed(
		"InitCustomPlayerSlots",
		"InitCustomTeams",
		"InitAllyPriorities",
	)},
}

// InsertInSection splices bodies after the section's comment box:
//
//	//***************************************************************************
//	//*
//	//*  Unit Creation
//	//*
//	//***************************************************************************
//
// The bodies go after the third line break following the header line.
// Empty bodies are skipped; with nothing left the text is returned as is.
// The header must be present either way.
func InsertInSection(text, header string, bodies []string) (string, error) {
	anchor := "//*  " + header
	at := strings.Index(text, anchor)
	if at < 0 {
		return "", anchorError("sections", anchor, ErrSectionNotFound)
	}
	kept := bodies[:0:0]
	for _, b := range bodies {
		if b != "" {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return text, nil
	}
	for range 3 {
		nl := strings.IndexByte(text[at:], '\n')
		if nl < 0 {
			return "", anchorError("sections", anchor, ErrSectionNotFound)
		}
		at += nl + 1
	}
	var b strings.Builder
	b.Grow(len(text) + 64*len(kept))
	b.WriteString(text[:at])
	b.WriteString(source.CRLF)
	for _, body := range kept {
		b.WriteString(body)
		b.WriteString(source.CRLF)
	}
	b.WriteString(text[at:])
	return b.String(), nil
}
