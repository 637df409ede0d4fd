package credstore

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	_, err := Default.Load("localhost:5000")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, Default.Save("localhost:5000", "value"))
	got, err := Default.Load("localhost:5000")
	require.NoError(t, err)
	require.Equal(t, "value", got)

	require.NoError(t, Default.Delete("localhost:5000"))
	require.NoError(t, Default.Delete("localhost:5000"), "deleting twice is fine")
	_, err = Default.Load("localhost:5000")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestJarSaveRestore(t *testing.T) {
	keyring.MockInit()
	u, err := url.Parse("http://localhost:5000/api")
	require.NoError(t, err)

	jar := NewJar()
	jar.SetCookies(u, []*http.Cookie{{Name: "token", Value: "jwt", Path: "/", HttpOnly: true}})
	require.NoError(t, jar.Save(Default, u))

	restored := NewJar()
	require.True(t, restored.Empty(u))
	require.NoError(t, restored.Restore(Default, u))

	cookies := restored.Cookies(u)
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.Equal(t, "jwt", cookies[0].Value)
}

func TestJarResetForgetsSession(t *testing.T) {
	keyring.MockInit()
	u, err := url.Parse("http://localhost:5000/api")
	require.NoError(t, err)

	jar := NewJar()
	jar.SetCookies(u, []*http.Cookie{{Name: "token", Value: "jwt", Path: "/"}})
	require.NoError(t, jar.Save(Default, u))

	jar.Reset()
	require.True(t, jar.Empty(u))
	require.NoError(t, jar.Save(Default, u))

	_, err = Default.Load(u.Host)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRestoreWithoutSession(t *testing.T) {
	keyring.MockInit()
	u, err := url.Parse("http://example.com/api")
	require.NoError(t, err)

	jar := NewJar()
	require.NoError(t, jar.Restore(Default, u))
	require.True(t, jar.Empty(u))
}

func TestRestoreCorruptSession(t *testing.T) {
	keyring.MockInit()
	u, err := url.Parse("http://example.com/api")
	require.NoError(t, err)
	require.NoError(t, Default.Save(u.Host, "not json"))

	require.Error(t, NewJar().Restore(Default, u))
	_, err = Default.Load(u.Host)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}
