/*
Package domain contains the core domain models for the intake engine.

It defines the application draft being filled, the typed step identifiers of the
conversation graph, the per-kind scratch records used by repeatable sub-loops, and
the session State. This package is kept pure and free of external I/O or
persistence concerns.

# Key Entities

  - Application: the nested draft record (meta, applicant, household, income, ...).
  - StepID: a position in the conversation graph.
  - Pending: typed scratch records for the sub-loop in progress.
  - State: the runtime snapshot of a session (current step, draft, pending, history).
  - ActionRequest: what the host should render, ask for, or wait on.
*/
package domain
