// Package query classifies natural-language queries into intent categories
// and extracts coarse entities from fixed vocabularies. Analysis is a pure
// function over the query text: no I/O, no mutation.
package query
