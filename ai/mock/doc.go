// Package mock provides test doubles for the ai package interfaces.
//
// Constructors return concrete types rather than interfaces so tests can
// inject behavior through function fields and assert on call counts.
package mock
