// Package llm defines the decision-service boundary: the conversation
// model exchanged with a large language model, the structured decision it
// returns (direct answer or tool invocations), and the Client interface
// concrete providers implement. Provider-specific adapters live in
// subpackages such as llm/openai.
package llm
