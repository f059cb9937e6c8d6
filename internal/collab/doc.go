// Package collab wraps the UnleashNFTs REST API, the external data
// collaborator every analytics operation reads from. It exposes a single
// authenticated GET primitive; interpretation of payloads is left to the
// decision service downstream.
package collab
