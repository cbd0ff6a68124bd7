// Package ir defines the graph-based A-Normal Form representation used by anf.
//
// Each function is a Graph. Its body is not a tree of nested expressions but a
// graph of applications: every intermediate value is the Node that produces
// it, and a Node's inputs are the nodes it consumes.
//
// # Structure
//
// There are four kinds of node:
//   - Parameter: a graph parameter; no inputs, belongs to one graph
//   - Constant: a literal value; no inputs, no graph. A constant holding a
//     *Graph is a function value (a closure when the graph has free variables)
//   - Apply: inputs[0] is the callee, inputs[1:] are the arguments
//   - Return: exactly one input, the value returned by its graph
//
// A Graph owns its parameters and its return node. Apply and Constant nodes
// are reached by walking inputs from the return node.
//
// # Edges
//
// Edges are kept in both directions. The forward edges of a node live in its
// Inputs; every input slot also records a Use{User, Index} on the referenced
// node. For every pair of nodes N and M:
//
//	N.Inputs()[i] == M  <=>  M.HasUse(N, i)
//
// All mutation goes through Inputs (Set, Insert, Delete, Append, Clear) and
// Node.Replace, which keep both sides in step after every call. Operations
// that fail leave the graph untouched.
//
// # Concurrency
//
// The IR is a passive data structure with no internal locking. Renumbering a
// node's uses after an insert or delete takes several steps, so concurrent
// mutation of nodes that share edges corrupts the invariant. Run one pass at a
// time or serialize access externally, for example with one lock per graph.
package ir
