// Package search wraps the backend search endpoint used by lookup fields.
//
// A Searcher keeps the last query, the last result set and a loading flag.
// Queries shorter than MinQueryLength clear the state without touching the
// network. Overlapping calls are not sequenced: whichever response arrives
// last wins.
package search
