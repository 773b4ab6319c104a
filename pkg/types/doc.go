// Package types defines the ResponseStore interface, the CachedResponse
// entity, store configuration and the standard errors shared by the orgscout
// packages.
package types
