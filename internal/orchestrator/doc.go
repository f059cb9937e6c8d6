// Package orchestrator implements the top tier of the routing protocol.
// It asks the decision service which specialist agents should handle a
// query, runs them strictly one after another, records an explicit
// outcome per agent, and synthesizes the final answer from the full
// conversation.
package orchestrator
