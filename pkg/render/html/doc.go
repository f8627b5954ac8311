// Package html renders a flow as a static HTML preview with every field
// pre-filled from its bound external data.
package html
