// Package history persists the audit log of executed shell commands.
package history
