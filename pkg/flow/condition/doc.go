// Package condition evaluates the branch conditions of decision steps.
//
// Expressions read collected values by name (dot paths reach into nested
// objects) and compare them against literals or other values:
//
//	plan == "pro" && seats >= 10
//	!(country == "DE" || country == "AT")
//	newsletter
//
// Supported operators are == != < > <= >= && || ! and parentheses. An empty
// expression is true.
package condition
