package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("google.client_id", "client-123"))

	val, ok := store.Get("google.client_id")
	assert.True(t, ok)
	assert.Equal(t, "client-123", val)
	assert.Equal(t, "client-123", store.GetString("google.client_id"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")

	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_WritesTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("google.client_id", "client-123"))
	require.NoError(t, store.Set("server.port", 4000))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[google]")
	assert.Contains(t, string(raw), "client_id = 'client-123'")
	assert.Contains(t, string(raw), "[server]")
}

func TestConfigStore_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[google]
client_id = "abc.apps.googleusercontent.com"
scopes = "email profile"

[server]
port = 3001

[csp]
parent_domains = ["https://a.example.com", "https://b.example.com"]
trusted_domains = "https://*.example.com"

[debug]
enabled = true
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "abc.apps.googleusercontent.com", store.GetString("google.client_id"))
	assert.Equal(t, 3001, store.GetInt("server.port"))
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, store.GetStringSlice("csp.parent_domains"))
	assert.Equal(t, []string{"https://*.example.com"}, store.GetStringSlice("csp.trusted_domains"))
	assert.True(t, store.GetBool("debug.enabled"))
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("google.api_key", "key-1"))
	require.NoError(t, store.Set("grant.port_min", 9000))
	require.NoError(t, store.Set("csp.trusted_domains", []string{"https://x.io"}))

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "key-1", reloaded.GetString("google.api_key"))
	assert.Equal(t, 9000, reloaded.GetInt("grant.port_min"))
	assert.Equal(t, []string{"https://x.io"}, reloaded.GetStringSlice("csp.trusted_domains"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("google.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)

	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Load())
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing written until Set")
}

func TestConfigStore_Load_InvalidTOML(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("valid", "data"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("invalid toml syntax ][}{"), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Save_WriteFileErrorRollsBack(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	// A directory in place of the file makes the write fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("another", "value"))
	_, ok := store.Get("another")
	assert.False(t, ok)

	assert.Error(t, store.Set("test", "changed"))
	assert.Equal(t, "value", store.GetString("test"))
}

func TestConfigStore_SetWithUnmarshallableValue(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("channel", make(chan int)))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("server.port", i)
			_ = store.GetInt("server.port")
		}()
	}
	wg.Wait()

	_, ok := store.Get("server.port")
	assert.True(t, ok)
}

func TestFlattenAndNestMap(t *testing.T) {
	nested := map[string]any{
		"google": map[string]any{"client_id": "c", "api_key": "k"},
		"top":    "v",
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"google.client_id": "c", "google.api_key": "k", "top": "v"}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
