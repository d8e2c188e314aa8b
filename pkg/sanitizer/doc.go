// Package sanitizer normalizes free-text values such as booking and
// resource display names before they appear in conflict reasons.
//
// Functions are idempotent and never fail: blank input yields "".
package sanitizer
