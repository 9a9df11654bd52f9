package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageServer отдаёт 200 только на перечисленные картинки.
func imageServer(t *testing.T, names ...string) *httptest.Server {
	t.Helper()
	ok := make(map[string]bool, len(names))
	for _, n := range names {
		ok["/"+n+".png"] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok[r.URL.Path] {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeTestConfig(t *testing.T, srvURL string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf(`
step:
  url_template: "%s/{X}-S{Y}-Q{Z}.png"
  probe_timeout: 1s
selector:
  retries: 5
store:
  path: %q
logging:
  level: error
`, srvURL, filepath.Join(dir, "stepbot.db"))
	path := filepath.Join(dir, "stepbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLookupCmd(t *testing.T) {
	srv := imageServer(t, "97-S2-Q1")
	cfg := writeTestConfig(t, srv.URL)

	out, err := execute(t, "--config", cfg, "lookup", "97-S2-Q1")
	require.NoError(t, err)
	assert.Equal(t, "STEP 2 1997, Question 1\n"+srv.URL+"/97-S2-Q1.png\n", out)

	_, err = execute(t, "--config", cfg, "lookup", "97-S2-Q2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be found")

	_, err = execute(t, "--config", cfg, "lookup", "bad-input")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")

	_, err = execute(t, "--config", cfg, "lookup", "97-S2-Q99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid STEP question reference")
}

func TestRandomCmd(t *testing.T) {
	srv := imageServer(t)
	cfg := writeTestConfig(t, srv.URL)

	_, err := execute(t, "--config", cfg, "random")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find a valid STEP question")

	_, err = execute(t, "--config", cfg, "random", "--papers", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid STEP question reference")
}

func TestRunCmd_RequiresToken(t *testing.T) {
	srv := imageServer(t)
	cfg := writeTestConfig(t, srv.URL)

	_, err := execute(t, "--config", cfg, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")
}

func TestHistoryCmd_Empty(t *testing.T) {
	srv := imageServer(t)
	cfg := writeTestConfig(t, srv.URL)

	out, err := execute(t, "--config", cfg, "history")
	require.NoError(t, err)
	assert.Equal(t, "history: (empty)\n", out)
}
