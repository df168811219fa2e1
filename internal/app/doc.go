// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the deploy lifecycle (load a scenario,
// resolve a placement, submit the bundle, report), decoupled from any
// specific entrypoint like a CLI or server.
package app
