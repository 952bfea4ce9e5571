package service

import (
	"context"
	"time"
)

// SlotLocker serializes work on a key across callers.
type SlotLocker interface {
	// Lock blocks until key is held or ctx ends, and returns the release func.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Navigator asks the client of a chat session to change view.
type Navigator interface {
	NavigateTo(sessionID, path string)
}

// DelayScheduler runs f once after d.
type DelayScheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timerScheduler struct{}

// NewTimerScheduler returns a DelayScheduler backed by time.AfterFunc.
func NewTimerScheduler() DelayScheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
