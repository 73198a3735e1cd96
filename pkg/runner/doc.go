/*
Package runner implements the conversation loop and I/O orchestration.

It acts as the bridge between the stateless engine and a terminal or a pipe.
The runner resumes or starts a session, writes the engine's actions through
a pluggable IOHandler, honours PACE actions, reads answers and persists each
accepted turn through a session.Manager.

# Key Components

  - Runner: the loop. Stops on exit/quit, end of input, interrupt or finalization.
  - TextHandler: interactive terminal usage, with default answers on enter.
  - JSONHandler: one JSON array of actions per line, for scripted hosts.
  - SanitizeInput: size, UTF-8 and control character checks for raw answers.

# Usage

	r := runner.NewRunner(
		runner.WithSessions(session.NewManager(store)),
		runner.WithSessionID("applicant-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	state, err := r.Run(ctx, intake.New())
*/
package runner
