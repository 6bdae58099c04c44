// Package redisstore provides the Redis-backed reference backend for
// ticketreg, suitable for multi-node deployments sharing one session fabric.
//
// # Architecture boundaries
//
// This package owns key layout and value encoding for tickets in Redis. It
// does NOT evaluate expiration, cascade deletes, or encrypt payloads;
// those belong to the registry core, which hands this store opaque tickets
// and pre-digested ids.
package redisstore
