// Package cli provides the interactive SecurePass command-line client.
//
// It wires configuration, the secure store, the local verifier and the pass
// service, then runs a small REPL. The REPL keeps only presentation state
// (whether the vault is shown as unlocked, the last message) and renders
// what the pass service returns.
//
// Commands: help, enroll, unlock, list, add <code>, open <id>,
// toggle <id>, remove <id>, lock, exit | quit.
package cli
