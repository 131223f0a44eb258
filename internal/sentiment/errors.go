package sentiment

import "errors"

var (
	// ErrEmptyInput indicates the text is empty or whitespace only.
	ErrEmptyInput = errors.New("empty text cannot be analyzed")

	// ErrExternalModel indicates the model failed or broke its output contract.
	ErrExternalModel = errors.New("external model error")
)
