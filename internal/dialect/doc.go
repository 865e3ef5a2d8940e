// Package dialect names the two script dialects a module may be written in
// and guesses the dialect of a script whose origin is not known.
//
// Detection never changes how a script is parsed: callers that know the
// dialect (a module folder holding war3map.lua, a --dialect flag) pass it
// explicitly and only fall back to Detect otherwise.
package dialect
