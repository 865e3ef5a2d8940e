// Package ir folds the node stream of one module script into the records
// the merge engine consumes: the captured function table, the main
// configuration record and the player configuration record.
//
// A Module is built fresh for every script and is not modified after Build
// returns.
package ir
