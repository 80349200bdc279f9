package dailylog

import "fmt"

type ReplaceStage string

const (
	ReplaceStageDelete  ReplaceStage = "delete"
	ReplaceStageCreate  ReplaceStage = "create"
	ReplaceStageRestore ReplaceStage = "restore"
)

// ReplaceError reports where the delete-create-restore sequence of an
// edit broke off. A delete or create stage failure means the edit did
// not go through (though the server-side delete may already have
// happened); a restore stage failure means the new log was saved but
// the previous actual training sessions could not be re-applied.
type ReplaceError struct {
	Stage ReplaceStage
	Err   error
}

func (e *ReplaceError) Error() string {
	if e.Stage == ReplaceStageRestore {
		return fmt.Sprintf(
			"log saved, but previous training sessions could not be restored: %s", e.Err,
		)
	}
	return fmt.Sprintf("log edit failed at %s step: %s", e.Stage, e.Err)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}

// Partial reports whether a usable log exists despite the error: the
// create went through, only the training restore failed.
func (e *ReplaceError) Partial() bool {
	return e.Stage == ReplaceStageRestore
}
