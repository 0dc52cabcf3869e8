// [Parse] turns a string into an interpolation AST.
//
// Three shapes cover most documents:
//
//	interp.Parse("plain text")                  // Literal("plain text")
//	interp.Parse("${env:HOME}")                  // *Resolver{Name: "env", Args: [Literal("HOME")]}
//	interp.Parse("prefix-${.sibling}-suffix")    // *Concat of Literal, *SelfRef, Literal
//
// Callers that hold many strings and want to avoid parsing ones that are
// already plain text should check [NeedsProcessing] first.
package interp
