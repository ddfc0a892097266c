package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/ytdlq/internal/log"
)

func TestCtxWithValues(t *testing.T) {
	tests := map[string]struct {
		ctx       func() context.Context
		kv        log.Kv
		expValues log.Kv
	}{
		"Setting values on an empty context should store them.": {
			ctx:       context.Background,
			kv:        log.Kv{"task_id": "t1"},
			expValues: log.Kv{"task_id": "t1"},
		},
		"Setting values on a context with values should merge them.": {
			ctx: func() context.Context {
				return log.CtxWithValues(context.Background(), log.Kv{"task_id": "t1", "op": "status"})
			},
			kv:        log.Kv{"request_id": "r1", "op": "cancel"},
			expValues: log.Kv{"task_id": "t1", "request_id": "r1", "op": "cancel"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := log.CtxWithValues(test.ctx(), test.kv)
			assert.Equal(t, test.expValues, log.ValuesFromCtx(ctx))
		})
	}
}

func TestValuesFromCtxWithoutValues(t *testing.T) {
	assert.Equal(t, log.Kv{}, log.ValuesFromCtx(context.Background()))
}
