package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// mini-parser
	PrsInfo           Code = 1000
	PrsRecognitionGap Code = 1001
	PrsLuaSyntax      Code = 1002

	// IR builder
	IRInfo             Code = 3000
	IRMalformedInteger Code = 3001
	IRMissingArgument  Code = 3002

	// transpiler
	TrnInfo             Code = 4000
	TrnUnknownLocalType Code = 4001
	TrnUnitReplaced     Code = 4101
	TrnUnitMissing      Code = 4102
	TrnDropItemsRewired Code = 4103

	// merge engine
	MrgInfo              Code = 5000
	MrgSectionNotFound   Code = 5001
	MrgMarkerCardinality Code = 5002
	MrgInvalidPattern    Code = 5003
	MrgStepFailed        Code = 5004

	// project
	PrjInfo            Code = 6000
	PrjManifest        Code = 6001
	PrjModuleNoScript  Code = 6002
	PrjDialectConflict Code = 6003

	IOLoadFileError  Code = 7001
	IOWriteFileError Code = 7002

	ObsInfo    Code = 8000
	ObsTimings Code = 8001
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	PrsInfo:              "Parser information",
	PrsRecognitionGap:    "Line not recognised",
	PrsLuaSyntax:         "Dialect-L syntax error",
	IRInfo:               "IR information",
	IRMalformedInteger:   "Argument is not an integer constant",
	IRMissingArgument:    "Call is missing an argument",
	TrnInfo:              "Transpiler information",
	TrnUnknownLocalType:  "Unknown local variable type",
	TrnUnitReplaced:      "Unit type replaced",
	TrnUnitMissing:       "Unit type has no substitute",
	TrnDropItemsRewired:  "Drop-item callback rewired",
	MrgInfo:              "Merge information",
	MrgSectionNotFound:   "Template section not found",
	MrgMarkerCardinality: "Template marker must match exactly once",
	MrgInvalidPattern:    "Disallowed source pattern",
	MrgStepFailed:        "Merge step failed",
	PrjInfo:              "Project information",
	PrjManifest:          "Invalid project manifest",
	PrjModuleNoScript:    "Module folder has no script",
	PrjDialectConflict:   "Module folder has scripts in both dialects",
	IOLoadFileError:      "I/O load file error",
	IOWriteFileError:     "I/O write file error",
	ObsInfo:              "Observability information",
	ObsTimings:           "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("PRS%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TRN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("MRG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
