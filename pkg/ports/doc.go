/*
Package ports defines the driven ports (interfaces) of ucflow.

These interfaces decouple transformation from where use cases come from and where
results go, so the same engine runs over files, a Loam vault, memory or Redis.

# Key Interfaces

  - UseCaseLoader: Responsible for finding use cases by name (e.g., from Loam, a directory or memory).
  - ResultStore: Responsible for persisting exported activity documents.
  - Watchable: Optional change notification for loaders backed by a file system.
*/
package ports
