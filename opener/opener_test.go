package opener

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	accept  func(string) bool
	fail    bool
	checked []string
	opened  []string
}

func (r *recorder) CanOpen(u string) bool {
	r.checked = append(r.checked, u)
	return r.accept(u)
}

func (r *recorder) Open(u string) error {
	r.opened = append(r.opened, u)
	if r.fail {
		return errors.New("refused")
	}
	return nil
}

func TestOpenURLDirect(t *testing.T) {
	r := &recorder{accept: func(string) bool { return true }}
	assert.True(t, OpenURL(r, "https://go.dev"))
	assert.Equal(t, []string{"https://go.dev"}, r.opened)
}

func TestOpenURLRetriesWithHTTPSOnce(t *testing.T) {
	r := &recorder{accept: func(string) bool { return false }}
	assert.True(t, OpenURL(r, "example.com"))
	assert.Equal(t, []string{"example.com"}, r.checked)
	assert.Equal(t, []string{"https://example.com"}, r.opened)
}

func TestOpenURLFailures(t *testing.T) {
	r := &recorder{accept: func(string) bool { return false }, fail: true}
	assert.False(t, OpenURL(r, "example.com"))
	assert.Equal(t, []string{"https://example.com"}, r.opened, "no second retry")

	r = &recorder{accept: func(string) bool { return true }, fail: true}
	assert.False(t, OpenURL(r, "https://go.dev"))
	assert.Equal(t, []string{"https://go.dev"}, r.opened, "no correction after a failed direct open")

	assert.False(t, OpenURL(nil, "https://go.dev"))
	r = &recorder{accept: func(string) bool { return true }}
	assert.False(t, OpenURL(r, ""))
	assert.Empty(t, r.opened)
}

func TestSystemCanOpen(t *testing.T) {
	s := System{}
	for _, u := range []string{"https://go.dev", "http://x.com/a?b=c", "mailto:ada@example.com", "file:///tmp/a.pdf", "tel:+15551234", "FTP://ftp.example.org"} {
		assert.True(t, s.CanOpen(u), u)
	}
	for _, u := range []string{"example.com", "www.example.com/path", "ada@example.com", "mailto:", "javascript:alert(1)", "example.com:8080", "%zz"} {
		assert.False(t, s.CanOpen(u), u)
	}
}

func TestSystemCmd(t *testing.T) {
	cases := map[string][]string{
		"linux":   {"xdg-open", "https://go.dev"},
		"darwin":  {"open", "https://go.dev"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler", "https://go.dev"},
	}
	for goos, want := range cases {
		cmd, err := System{GOOS: goos}.Cmd("https://go.dev")
		require.NoError(t, err, goos)
		assert.Equal(t, want, cmd.Args, goos)
	}

	// shell metacharacters stay inside the single URL argument
	raw := "https://x.com/?a=1&calc|more^<in>"
	for _, goos := range []string{"windows", "linux", "darwin"} {
		cmd, err := System{GOOS: goos}.Cmd(raw)
		require.NoError(t, err, goos)
		assert.Equal(t, raw, cmd.Args[len(cmd.Args)-1], goos)
		assert.NotContains(t, cmd.Args, "cmd", goos)
		assert.NotContains(t, cmd.Args, "/c", goos)
	}
	_, err := System{GOOS: "plan9"}.Cmd("https://go.dev")
	assert.Error(t, err)

	cmd, err := System{Command: []string{"firefox", "--new-tab"}}.Cmd("https://go.dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "--new-tab", "https://go.dev"}, cmd.Args)

	cmd, err = System{Command: []string{"browser", "--url={url}", "--quiet"}}.Cmd("https://go.dev")
	require.NoError(t, err)
	assert.Equal(t, []string{"browser", "--url=https://go.dev", "--quiet"}, cmd.Args)
}
