package exam

import "errors"

var (
	// ErrNoQuestionsAvailable means the category filter left nothing to ask
	ErrNoQuestionsAvailable = errors.New("no questions available for the selected categories")
	// ErrInvalidResumeState means the pause file exists but cannot be used
	ErrInvalidResumeState = errors.New("invalid resume state")
	// ErrNoSnapshot means there is no paused exam to resume
	ErrNoSnapshot = errors.New("no paused exam")
	// ErrInvalidChoice means the answer is not one of the current question's choices
	ErrInvalidChoice = errors.New("answer is not one of the question's choices")
	// ErrReshuffleStarted means answers or flags already refer to positions
	ErrReshuffleStarted = errors.New("cannot reshuffle after answering or flagging")
	// ErrNoSession is returned by controller intents issued with no active exam
	ErrNoSession = errors.New("no exam in progress")
)
