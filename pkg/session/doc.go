/*
Package session keeps concurrent draw flows in memory for multi-user hosts.

Each session owns one flow created by a Factory and is addressed by a random
UUID. Compound operations on a session (draw followed by commit) are serialized
with WithLock; the per-session locks are reference counted and released when unused.
*/
package session
