package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errTeapot = errors.New("short and stout")

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mappings := []Mapping{{Err: errTeapot, Status: http.StatusTeapot}}

	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errTeapot, http.StatusTeapot, "short and stout"},
		{errors.Wrap(errTeapot, "brew"), http.StatusTeapot, "short and stout"},
		{errors.New("disk on fire"), http.StatusInternalServerError, MsgInternalError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Error(c, tc.err, mappings)

		require.Equal(t, tc.code, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, tc.msg, body["message"])
	}
}

func TestParseID(t *testing.T) {
	for raw, want := range map[string]uint64{"1": 1, "42": 42} {
		id, ok := ParseID(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, id)
	}

	for _, raw := range []string{"", "0", "-3", "abc", "1.5", "99999999999999999999"} {
		_, ok := ParseID(raw)
		require.False(t, ok, raw)
	}
}
