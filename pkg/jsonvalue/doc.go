// Package jsonvalue decodes loosely structured JSON payloads into plain Go
// values while keeping the declaration order of object members. Objects decode
// to *Object, arrays to []any, numbers to float64, and null to nil.
package jsonvalue
