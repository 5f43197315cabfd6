package repository

import (
	"context"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Store failures split into two classes: transient ones (lock contention,
// timeouts) the caller may retry on a later cycle, and fatal ones (schema,
// corruption) that must halt ingestion and reach the operator.
var (
	ErrStoreTransient = errors.New("store temporarily unavailable")
	ErrStoreFatal     = errors.New("store failure")

	ErrMatchNotFound = errors.New("match not stored")
)

func classifyStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return wrapStoreErr(op, ErrStoreTransient, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrInterrupt, sqlite3.ErrIoErr:
			return wrapStoreErr(op, ErrStoreTransient, err)
		}
	}
	return wrapStoreErr(op, ErrStoreFatal, err)
}
