// Package api defines the wire types shared by handlers and middleware:
// the error envelope and its error type vocabulary.
package api
