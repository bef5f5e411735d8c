package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsResultFormatMismatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "pq protocol error", err: &pq.Error{Code: pqProtocolViolation, Message: "bind message has 2 result formats but query has 1 columns"}, want: true},
		{name: "plain pooler error", err: errors.New("bind message has 2 result formats but query has 1 columns"), want: true},
		{name: "wrapped", err: fmt.Errorf("select: %w", &pq.Error{Code: pqProtocolViolation, Message: "bind message has 3 result formats"}), want: true},
		{name: "missing relation", err: errors.New(`pq: relation "match_tree" does not exist`), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isResultFormatMismatch(tt.err))
		})
	}
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, isUndefinedTable(&pq.Error{Code: pqUndefinedTable}))
	assert.True(t, isUndefinedTable(errors.New(`relation "match_tree" does not exist`)))
	assert.False(t, isUndefinedTable(&pq.Error{Code: "08006", Message: "connection failure"}))
	assert.False(t, isUndefinedTable(nil))
}
