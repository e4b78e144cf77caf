// Package domain holds the core business entities of the system, Task and
// TaskBatch, together with their validation rules and status semantics.
// It has no dependency on storage, transport, or any other infrastructure.
package domain
