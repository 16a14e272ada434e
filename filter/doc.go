// Package filter provides optional, typed constraints on entity fields and
// parsing of "field.operator=value" query parameters into them.
package filter
