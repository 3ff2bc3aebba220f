// Package jsonutil parses JSON into an order-preserving tagged document model
// and walks dotted key paths over it.
//
// A path such as "data.versions" is split on '.' and every segment must name
// a member of an object. Walking stops with an absent value as soon as a
// segment is missing or the current value is not an object; the caller
// cannot tell those two cases apart from a value that resolved to something
// other than what it expected.
package jsonutil
