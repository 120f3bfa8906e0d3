package names

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/selftest"
)

func TestDefault_PassesSelfTest(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	var out bytes.Buffer
	ok := selftest.Run(&out, c)
	assert.True(t, ok, out.String())
	assert.Equal(t, "OK\n", out.String())
}

func TestDefault_IsShared(t *testing.T) {
	var wg sync.WaitGroup
	got := make([]*Checker, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := Default()
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()
	for _, c := range got[1:] {
		assert.Same(t, got[0], c)
	}
}

func TestAllowed_Scenarios(t *testing.T) {
	assert.False(t, Allowed("admin"))
	assert.False(t, Allowed("AdmiN"))
	assert.True(t, Allowed("masdf"))
	assert.True(t, Allowed("jake"))
	assert.False(t, Allowed(""))
	assert.False(t, Allowed("null"))
	assert.False(t, Allowed("wwwfoo"))

	ok, err := AllowedIn("postmaster", "mail")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = AllowedIn("postmaster", "null")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllowed_CaseInsensitive(t *testing.T) {
	for _, n := range []string{"admin", "postmaster", "jake", "systemd-abc", "masdf"} {
		lower, upper := Allowed(strings.ToLower(n)), Allowed(strings.ToUpper(n))
		assert.Equal(t, Allowed(n), lower, n)
		assert.Equal(t, lower, upper, n)
	}
}

func TestAllowedIn_UnknownCollection(t *testing.T) {
	_, err := AllowedIn("jake", "no-such-collection")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)

	// lint runs first, so an invalid name is simply disallowed
	ok, err := AllowedIn("", "no-such-collection")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	got, ok := Valid("Jake")
	assert.True(t, ok)
	assert.Equal(t, "jake", got)

	_, ok = ValidMaxLength("jake", 3)
	assert.False(t, ok)
}

func TestDocument_IsACopy(t *testing.T) {
	d := Document()
	require.NotEmpty(t, d)
	d[0] = 'X'
	assert.NotEqual(t, d[0], Document()[0])
}

func TestLoad_CustomDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"all": ["jake"], "team": ["/all", "ops*"]}`), 0o644))

	c, err := Load(path, Options{CacheSize: -1, Collection: "team"})
	require.NoError(t, err)

	ok, err := c.Allowed("admin", "all")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Allowed("Jake", "")
	require.NoError(t, err)
	assert.False(t, ok, "default collection team references all")

	ok, err = c.Allowed("ops-lead", "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), Options{})
	assert.Error(t, err)
}
