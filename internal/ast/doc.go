// Package ast is the in-process stand-in for the compiler front end's symbol
// and expression model.
//
// It provides three things the dependency engine queries:
//   - Types: scalar, pointer, array (C length or Fortran bounds), class and
//     reference shapes, with a static byte size when one is known.
//   - Symbols and scopes: a Block scope chain with optional case folding
//     (Fortran) and an optional implicit object (`this` in C++ member
//     functions).
//   - Expressions: a closed sum type. Every node implements Expr through an
//     unexported marker method, so the set of node kinds is fixed in this
//     package, and walkers switch over it exhaustively with a default arm for
//     anything unhandled.
//
// Expressions are never mutated after construction. Dependency items
// reference them, they do not own them.
package ast
