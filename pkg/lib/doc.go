// Package lib provides a Go SDK to submit and track downloads on a YouTube
// download service programmatically.
//
// It shares the task store and the settings with the ytdlq CLI, so tasks
// submitted from a program show up in `ytdlq list` and the other way around.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	task, err := client.Submit(ctx, "https://youtu.be/abc123", &lib.SubmitOpts{Format: lib.FormatAudioMP3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Poll the service until the task finishes.
//	task, err = client.Wait(ctx, task.ID)
//
// # Polling
//
// The tracked tasks are only refreshed when asked to. [Client.Reconcile] runs
// a single pass, [Client.Watch] polls until the context is cancelled and
// [Client.Wait] until a task finishes. Finished tasks (completed, error,
// cancelled) are never queried again.
//
// # Testing
//
// Set [Config].FakeService to use an in-memory download service that moves
// every task one step forward (pending, downloading, completed) on each poll.
//
// # Errors
//
// Errors can be checked with [errors.Is] against [ErrInvalidURL],
// [ErrSubmissionFailed], [ErrCancelFailed], [ErrNotFound] and [ErrNotValid].
package lib
