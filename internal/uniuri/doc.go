// Package uniuri generates random strings, used for one-off secrets
// like the seeded admin password.
package uniuri
