// Package syncer contains the sync coordinator: the single authority that
// pushes pending local mutations to the remote document service and pulls
// authoritative remote state back into the local store.
package syncer
