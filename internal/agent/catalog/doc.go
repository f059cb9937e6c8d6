// Package catalog defines the eight specialist agents as data: their
// identity, routing keywords, system prompts, and the analytics
// operations each one can run against the UnleashNFTs collaborator.
// Every operation handler performs exactly one GET request.
package catalog
