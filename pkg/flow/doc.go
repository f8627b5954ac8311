// Package flow models form flows: ordered form steps whose fields may be
// pre-filled from external data, and decision steps that branch on the values
// collected so far.
package flow
