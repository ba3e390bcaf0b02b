package main

import "fmt"

// exitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// A nil Err means the command already printed its own explanation.
type exitError struct {
	Code int
	Err  error
}

func (e *exitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *exitError) Unwrap() error {
	return e.Err
}
