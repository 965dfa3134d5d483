// Package expr parses scalar formulas such as "sqrt(6 - x)" into a small
// syntax tree that is evaluated numerically.
//
// Only arithmetic, a fixed set of elementary functions, the constants pi and
// e, and a single variable are accepted. There is no general evaluation
// facility: anything else is a syntax error.
//
// Evaluation outside a function's domain (sqrt of a negative, ln of a
// non-positive, division by zero) returns an error wrapping [ErrDomain].
// [Expr.Derivative] evaluates f' with forward-mode dual numbers.
package expr
