// Package binding resolves form field data from external JSON payloads whose
// shape is not known ahead of time.
//
// A binding pass takes a decoded payload and an ordered list of field
// descriptors and returns the initial values and select options it managed to
// resolve. Fields are located through human-authored path expressions
// ("data.items[].value", "$.result['Field Name']") and, when no path is
// configured, through structural heuristics that compare the field's id and
// label against the payload's own key names across naming conventions.
//
// The package is pure: no I/O, no shared state, and malformed input never
// produces an error. Anything that cannot be resolved is simply absent from the
// result so callers leave the corresponding field untouched.
package binding
