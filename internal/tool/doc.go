// Package tool models the operations an agent can perform: ordered
// definitions with typed, defaulted parameters, a registry built at
// assembly time, and a dispatcher that executes decision-service
// invocations while containing every failure inside the call result.
package tool
