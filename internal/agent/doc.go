// Package agent implements the specialist agent runtime: a single
// decide/dispatch/synthesize cycle that asks the decision service which
// analytics operations to run, executes them sequentially against the
// data collaborator, and synthesizes the results into a final answer.
package agent
