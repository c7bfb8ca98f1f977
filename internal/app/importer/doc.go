// Package importer reads delimited student rosters.
//
// A roster is streamed through NewStreamReader (BOM removal and UTF-8 repair),
// its header is resolved with ParseHeader, and each data row is turned into a
// Record by a Parser. Records carry their 1-based file row number so that every
// problem can be reported as "Row N: ...", where the header is row 1.
//
// Persisting the records is the import service's job; this package never
// touches the database.
package importer
