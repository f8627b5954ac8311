// Package tui runs a flow interactively in the terminal, pre-filling every
// prompt with the values and options bound from external data.
package tui
