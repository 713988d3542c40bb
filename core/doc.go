// Package core provides the foundational domain types, interfaces and execution
// contexts shared by every eventcrew package. It defines:
//
//   - Agents (units of work that answer a single task prompt)
//   - Events (immutable records emitted while an agent works)
//   - Content / Part (role based message segments exchanged with models)
//   - RunContext / ToolContext (scoped execution state for agents and tools)
//   - Credentials (per-request API keys threaded explicitly through a run)
//   - The ArtifactStore contract implemented by the artifact packages
//
// Implementation concerns (model vendors, storage backends, HTTP) live in
// their own packages and depend on these small interfaces.
package core
