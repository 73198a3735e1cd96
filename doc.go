/*
Package intake is a slot-filling conversation engine for public-benefits applications.

It walks an applicant through a fixed graph of short questions, validates every answer,
supports skipping, collects repeatable records (household members, income sources,
care and medical expenses, vehicles) and finally produces a structured application
document plus a plain-text summary.

# Concept

The engine is deterministic and side-effect free: given the same state and answer the
transition is always the same. It returns the next state and a list of actions
(utterances, input requests, pacing hints); the host (CLI, HTTP server, MCP agent) performs them
and owns persistence.

# Usage

	eng := intake.New()
	state, actions := eng.Start(ctx, "session-1", nil)
	// show actions, read an answer...
	state, actions, err := eng.Navigate(ctx, state, "yes")

Validation failures never surface as errors: the step holds and the actions carry a
corrective re-prompt.

# Structure

  - pkg/domain: state, draft and graph types.
  - pkg/validate: per-slot answer checks.
  - pkg/assembly: final document and summary.
  - pkg/extract: free-text answer extraction used by Prefill.
  - pkg/session, pkg/adapters, pkg/persistence: hosting and storage.
  - pkg/runner: the interactive loop for terminals and JSON pipes.
*/
package intake
