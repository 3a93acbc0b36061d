// Package main provides the entry point for the gudangku inventory backend.
// It runs a JSON REST API built on the Fiber framework for managing users and
// inventory items. Every protected route passes a JWT-plus-Redis
// authentication pipeline with a per-route role allow-list before its handler
// runs; gorm handles persistence for user accounts and item records.
package main
