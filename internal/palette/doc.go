// Package palette defines the in-memory model of a swatch palette document.
//
// A Document is an ordered sequence of blocks. Three kinds of block exist:
//
//   - GroupStart opens a named group
//   - GroupEnd closes the innermost open group
//   - Color is a named swatch with channel values in one color model
//
// Groups are expressed only by bracketing in the flat block sequence. The
// model does not require the brackets to balance: hand-edited files with a
// stray GroupEnd or an unclosed GroupStart are valid documents, and every
// package that walks the sequence must tolerate them.
//
// # Ownership
//
// A Document is owned by a single editing session. Blocks are pointers so
// that edits can mutate a color in place; the package does no locking.
package palette
