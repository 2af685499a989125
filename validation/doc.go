// Package validation validates request structs with go-playground/validator
// and converts failures into InvalidInput AppErrors naming the offending
// json fields.
package validation
