// Package objdata flattens layered object tables (base game, expansion,
// patch and prototype overrides) into one record per object identifier.
//
// Tables are read from CSV exports of the game's SLK files and from the
// UnitFunc INI files. A flattened Set is read-only and may be shared by
// concurrent module ports.
package objdata
