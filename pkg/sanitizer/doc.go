// Package sanitizer normalizes client-supplied input before validation
// and storage.
//
// All functions are idempotent - applying them twice produces the same
// result - and handle bad input by returning zero values rather than
// errors. Hotel and room free-text fields (names, cities, room types)
// go through string normalization; pagination inputs go through the
// numeric clamps.
package sanitizer
