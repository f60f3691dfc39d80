package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/tgschema/internal/config"
	"github.com/dgallion1/tgschema/internal/logging"
	"github.com/dgallion1/tgschema/internal/schema"
)

const testDoc = `<!DOCTYPE html><html><body><div id="dev_page_content">
<h3><a class="anchor" href="#getting-updates"></a>Getting updates</h3>
<h4><a class="anchor" name="user" href="#user"></a>User</h4>
<p>This object represents a Telegram user or bot.</p>
<table class="table">
<thead><tr><th>Field</th><th>Type</th><th>Description</th></tr></thead>
<tbody><tr><td>id</td><td>Integer</td><td>Unique identifier for this user or bot.</td></tr></tbody>
</table>
<h4><a class="anchor" name="getme" href="#getme"></a>getMe</h4>
<p>Returns basic information about the bot in form of a <a href="#user">User</a> object.</p>
</div></body></html>`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGenerate_FileToFile(t *testing.T) {
	input := writeFile(t, "api.html", testDoc)
	output := filepath.Join(t.TempDir(), "schema.json")

	_, err := runCommand(t, "generate", "--input", input, "--output", output, "--link-base", "https://example.org/api")
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	s, err := schema.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/api#user", s.Types["User"].Link)
	assert.Equal(t, "getMe", s.Methods[0].Name)

	entries, err := os.ReadDir(filepath.Dir(output))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")

	out, err := runCommand(t, "validate", output)
	require.NoError(t, err)
	assert.Contains(t, out, "valid")
}

func TestGenerate_YAMLToStdout(t *testing.T) {
	input := writeFile(t, "api.htm", testDoc)
	out, err := runCommand(t, "generate", "--input", input, "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "types")
	assert.Contains(t, doc, "methods")
}

func TestGenerate_FromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testDoc))
	}))
	defer srv.Close()

	out, err := runCommand(t, "generate", "--url", srv.URL)
	require.NoError(t, err)
	s, err := schema.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Contains(t, s.Types, "User")
}

func TestGenerate_Errors(t *testing.T) {
	broken := writeFile(t, "broken.html", `<div id="dev_page_content"><h3><a href="#getting-updates"></a>Getting updates</h3>
<h4><a href="#sendthing"></a>sendThing</h4><p>Sends a thing.</p></div>`)
	input := writeFile(t, "api.html", testDoc)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"engine error", []string{"generate", "--input", broken}, "missing_return_type"},
		{"input and url", []string{"generate", "--input", input, "--url", "https://example.org"}, "none of the others can be"},
		{"missing output dir", []string{"generate", "--input", input, "--output", filepath.Join(t.TempDir(), "nope", "s.json")}, "does not exist"},
		{"bad format", []string{"generate", "--input", input, "--format", "xml"}, "unsupported format"},
		{"unknown extension", []string{"generate", "--input", writeFile(t, "api.txt", testDoc)}, "unsupported file extension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerate_SourceFormatOverride(t *testing.T) {
	md := "### Getting updates\n\n#### [getMe](#getme)\n\nReturns *True* on success.\n"
	input := writeFile(t, "api.txt", md)
	out, err := runCommand(t, "generate", "--input", input, "--source-format", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, `"getMe"`)
}

func TestValidate_ReportsViolations(t *testing.T) {
	path := writeFile(t, "schema.yaml", "types: {}\nmethods:\n  - name: getMe\n")
	out, err := runCommand(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract violation")
	assert.Contains(t, out, "/methods/0")
}

func TestContract(t *testing.T) {
	out, err := runCommand(t, "contract")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "$defs")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Load()
	cfg.APIKey = "secret"
	a := &app{cfg: cfg, log: logging.Discard()}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
