// Package routing turns pairwise distance/time matrices into an open-path,
// single-vehicle routing problem and solves it.
//
// The pipeline is BuildProblem → Augment → Solver.Solve → ExtractRoute.
// Augment adds a virtual terminal node that every real node reaches for free,
// so a tour-shaped search yields a path that ends wherever is cheapest.
// RandomRoute produces the unoptimized comparison route for the same inputs.
//
// Nothing in this package keeps state between calls; a Solver only holds its
// options and may be shared by concurrent callers.
package routing
