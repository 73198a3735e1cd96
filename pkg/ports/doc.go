/*
Package ports defines the driven ports (interfaces) for the intake engine.

These interfaces decouple the conversation core from hosting concerns, allowing
the same engine to run behind a terminal, an HTTP API or an MCP server with any
storage backend.

# Key Interfaces

  - Conversation: the engine surface consumed by adapters.
  - StateStore: Responsible for persisting and loading session State.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
