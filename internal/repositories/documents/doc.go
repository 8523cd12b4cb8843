// Package documents contains the local document store: a Repository
// interface and its SQLite implementation. The store is the single durable
// source of local state; every mutating call persists before returning.
package documents
