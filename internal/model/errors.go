package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")

	// ErrInvalidURL is returned when a submitted URL is not a recognized video link.
	ErrInvalidURL = errors.New("invalid video url")
	// ErrSubmissionFailed is returned when the download service did not accept a submission.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrStatusQueryFailed is returned when a task status could not be queried.
	ErrStatusQueryFailed = errors.New("status query failed")
	// ErrCancelFailed is returned when the download service did not accept a cancellation.
	ErrCancelFailed = errors.New("cancel failed")
)
