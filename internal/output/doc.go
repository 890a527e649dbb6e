// Package output provides structured output handling for the wrapup CLI.
//
// This package handles both human-readable and JSON output formats, so every
// command works equally well for a human at a terminal and for a script
// consuming --json output.
//
// # Printer
//
// The Printer is the primary interface for command output. It automatically
// handles format switching based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	// For success output
//	printer.Success(map[string]any{"message": "Session log saved", "path": notePath})
//
//	// For error output
//	printer.Error(err)
//
// # Exit Codes
//
// The package defines standard exit codes and error types:
//
//	output.ExitSuccess     // 0: Success
//	output.ExitUserError   // 1: User error (bad args, missing config)
//	output.ExitSystemError // 2: System error (git failed, API error, I/O)
//	output.ExitBlocked     // 3: Operation refused (secret findings)
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("unknown target repo: " + name)
//	output.NewSystemError("git command failed")
//	output.NewBlockedError("publish blocked: 2 potential secrets found")
//
// These errors carry exit codes that are used for both JSON error output
// and process exit codes.
package output
