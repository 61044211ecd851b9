/*
Package ports defines the driven ports (interfaces) for the luckydraw engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to draw from various resource backends and randomness sources.

# Key Interfaces

  - Retriever: Returns the text contents of a resource identifier (e.g., from a directory, HTTP or Redis).
  - Randomizer: Supplies uniform random indexes for draws.
*/
package ports
