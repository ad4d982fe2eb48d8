package dig_container

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/attendance"
)

func TestNew_memory(t *testing.T) {
	conf := &core.Config{
		TestMode: true,
		Server:   core.ServerConfig{DisableReqLogs: true},
		Database: core.DatabaseConfig{Storage: core.StorageMemory},
	}
	c := New(conf)

	err := c.Invoke(func(server *echoapi.Server, locker attendance.KeyLocker, dbParam DBParam) {
		assert.IsType(t, &attendance.MutexLocker{}, locker)
		assert.Nil(t, dbParam.DB)

		req := httptest.NewRequest(http.MethodGet, "/v1/students", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
	require.NoError(t, err)
}
