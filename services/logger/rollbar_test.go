package logsvc

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/ratiba/core"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	logger := NewRollbarLogger(log.New(buf, "", 0), &core.Config{
		Env:     "TEST",
		Build:   "test",
		AppName: "ratiba",
		Storage: "postgres",
	})
	logger.Enable(false)
	return logger
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{
			name: "msg only",
			want: []interface{}{"msg", map[string]interface{}{"app": "ratiba", "storage": "postgres"}},
		},
		{
			name: "error & merged extras",
			args: []interface{}{err, map[string]interface{}{"file": "roster.xlsx"}, map[string]interface{}{"teachers": 3}},
			want: []interface{}{"msg", err, map[string]interface{}{
				"app": "ratiba", "storage": "postgres", "file": "roster.xlsx", "teachers": 3,
			}},
		},
		{
			name: "row errors as details",
			args: []interface{}{[]string{"Teachers row 2: name: this field is required"}},
			want: []interface{}{"msg", map[string]interface{}{
				"app": "ratiba", "storage": "postgres",
				"details": []string{"Teachers row 2: name: this field is required"},
			}},
		},
		{
			name: "other args folded",
			args: []interface{}{err, 42, "sheet", errors.New("again")},
			want: []interface{}{"msg", err, map[string]interface{}{
				"app": "ratiba", "storage": "postgres", "args": []string{"42", "sheet", "again"},
			}},
		},
		{
			name: "extras override fields",
			args: []interface{}{map[string]interface{}{"storage": "gorm"}},
			want: []interface{}{"msg", map[string]interface{}{"app": "ratiba", "storage": "gorm"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.prepare("msg", tt.args))
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := newTestLogger(buf)

	logger.Info("roster imported",
		map[string]interface{}{"teachers": 3, "file": "roster.xlsx"},
		[]string{"Teachers row 6: name: this field is required"},
	)
	logger.Warn("row skipped", fmt.Errorf("missing subject")) // no stack trace in output

	assert.Equal(t,
		"roster imported file=roster.xlsx teachers=3\n"+
			"  Teachers row 6: name: this field is required\n"+
			"row skipped: missing subject\n",
		buf.String(),
	)
}
