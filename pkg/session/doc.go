/*
Package session implements session management and persistence orchestration.

A conversation is strictly turn-based: one answer is processed to completion before
the next is accepted. The Manager enforces that per session, locally with reference
counted mutexes and, when a DistributedLocker is configured, across replicas.
*/
package session
