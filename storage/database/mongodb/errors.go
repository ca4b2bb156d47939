package mongodb

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

// wrapErr annotates err with msg. A disconnected client cannot recover,
// so it is turned into a shutdown error for the API to stop gracefully.
func wrapErr(err error, msg string) error {
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return errors.Wrap(core.NewShutdownError(err.Error()), msg)
	}
	return errors.Wrap(err, msg)
}
