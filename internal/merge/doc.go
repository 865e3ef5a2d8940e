// Package merge splices a module's IR into the prototype script.
//
// Engine.Merge runs an ordered list of text transforms over the template.
// Every step is a pure function of its input text and the module IR, so a
// merge with the same inputs always yields the same bytes. Any step failure
// aborts the merge; no partial script is returned.
//
// Order:
//
//	patterns     deny-listed idioms (optional)
//	strip        template copies of captured functions
//	metadata     banner, quest credits
//	tables       BEGIN/END hashtable blocks
//	deadcode     always-false functions and guarded blocks
//	sections     captured functions into their sections
//	main         camera, models, sounds, regions, globals
//	players      player/team counts, start locations, slots
//	library      telemetry library (optional)
//	maxplayers   udg_RFMaxPlayerIndex
//	readability  cosmetic rewrites (optional)
package merge
