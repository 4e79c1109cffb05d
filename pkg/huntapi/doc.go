// Package huntapi holds the pieces shared by every upstream
// integration: the pagination engine and its Continuation variants,
// raw-record field aliasing, the response cache backends with their
// gate, and the error kinds the rest of the repository matches with
// errors.Is.
//
// Each upstream expresses pagination differently - a literal next-page
// link, a numeric offset against a declared total, or an opaque cursor
// with a more-available flag. An integration supplies a PageFunc that
// performs one round trip and maps its payload onto one of those
// Continuation variants; FetchAll drives the PageFunc sequentially
// until exhaustion or until the caller's requested size is reached.
package huntapi
