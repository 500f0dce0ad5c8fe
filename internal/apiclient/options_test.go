package apiclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c, err := New("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
	assert.NotNil(t, c.http.Jar)
}

func TestTimeoutIndependentOfOptionOrder(t *testing.T) {
	for name, opts := range map[string][]Option{
		"timeout first": {WithTimeout(3 * time.Second), WithHTTPClient(&http.Client{Timeout: time.Minute})},
		"timeout last":  {WithHTTPClient(&http.Client{Timeout: time.Minute}), WithTimeout(3 * time.Second)},
	} {
		c, err := New("http://localhost:8080", opts...)
		require.NoError(t, err, name)
		assert.Equal(t, 3*time.Second, c.http.Timeout, name)
	}
}

func TestCallerHTTPClientLeftUntouched(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}
	c, err := New("http://localhost:8080", WithHTTPClient(shared), WithTimeout(time.Second))
	require.NoError(t, err)

	assert.Nil(t, shared.Jar)
	assert.Equal(t, time.Minute, shared.Timeout)
	assert.NotSame(t, shared, c.http)
	assert.NotNil(t, c.http.Jar)
	assert.Equal(t, time.Second, c.http.Timeout)

	// Without WithTimeout the caller's timeout carries over.
	c, err = New("http://localhost:8080", WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, c.http.Timeout)
	assert.Nil(t, shared.Jar)
}
