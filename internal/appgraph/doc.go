// Package appgraph models an application as a directed dataflow graph of
// processing modules.
//
// A Builder collects modules, typed edges, tuple mappings and loops, and
// Build validates the whole graph before returning an immutable Application:
//
//   - every edge endpoint that is not a physical endpoint label names a declared module
//   - every module is reachable from at least one sensor-source edge
//   - at least one actuator-sink edge is reachable from a sensor-source edge
//
// Feedback edges (for example classifier -> cache) are allowed; the graph is
// not required to be acyclic.
package appgraph
