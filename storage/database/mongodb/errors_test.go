package mongodb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Rashad2003/Student-Attendance-Management/core"
)

func TestWrapErr(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantShutdown bool
	}{
		{"disconnected", mongo.ErrClientDisconnected, true},
		{"wrapped disconnected", errors.Wrap(mongo.ErrClientDisconnected, "cursor"), true},
		{"no documents", mongo.ErrNoDocuments, false},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr(tt.err, "finding attendance day")
			assert.Equal(t, tt.wantShutdown, core.IsShutdown(err))
			assert.Equal(t, "finding attendance day: "+tt.err.Error(), err.Error())
		})
	}
}
