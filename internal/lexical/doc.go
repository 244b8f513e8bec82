// Package lexical provides stopword-filtered tokenisation and
// corpus-wide term statistics for BM25 scoring.
package lexical
