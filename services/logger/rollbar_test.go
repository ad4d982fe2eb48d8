package logsvc

import (
	"bytes"
	"log"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})

	req := httptest.NewRequest("PUT", "/attendance/mark?x=1", nil)
	logger.Error("marking attendance", req, errors.New("connection refused"), map[string]interface{}{"request_id": "abc"})

	out := buf.String()
	assert.Contains(t, out, "ERROR: marking attendance\n")
	assert.Contains(t, out, "\tPUT /attendance/mark?x=1\n")
	assert.Contains(t, out, "\tconnection refused\n")
	assert.Contains(t, out, "request_id:abc")
}
