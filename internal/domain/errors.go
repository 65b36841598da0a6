package domain

import "errors"

var (
	// ErrCountryNotFound is returned for country codes unknown to the directory or the question bank.
	ErrCountryNotFound = errors.New("country not found")
	// ErrUnknownQuestionID indicates a submitted question ID is not part of the country's bank.
	ErrUnknownQuestionID = errors.New("unknown question id")
	// ErrMalformedSubmission indicates a submission that cannot be scored as sent.
	ErrMalformedSubmission = errors.New("malformed submission")
	// ErrInvalidTemplate indicates authored question data that fails validation at load time.
	ErrInvalidTemplate = errors.New("invalid question template")
)
