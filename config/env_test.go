package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	vals := defaultValues()

	assert.Equal(t, "mongodb://localhost:27017", vals["MONGO_URI"])
	assert.Equal(t, "vdeckshop", vals["MONGO_DB"])
	assert.Equal(t, "4000", vals["APP_PORT"])
	assert.Equal(t, "uploads", vals["UPLOADS_DIR"])
	assert.Equal(t, "true", vals["ORDER_GUARD_STOCK"])
}

func TestMergeDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment line
APP_PORT=8080
mongo_db = shop_test
QUOTED="with quotes"
EMPTY=
not-a-pair
`), 0o644))

	out := defaultValues()
	require.NoError(t, mergeDotEnv(path, out))

	assert.Equal(t, "8080", out["APP_PORT"])
	assert.Equal(t, "shop_test", out["MONGO_DB"], "keys are upper-cased")
	assert.Equal(t, "with quotes", out["QUOTED"])
	assert.Equal(t, "", out["EMPTY"])
}

func TestMergeJSONConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app_port": "9090",
		"redis_addr": "redis:6379",
		"ignored_number": 42
	}`), 0o644))

	out := defaultValues()
	require.NoError(t, mergeJSONConfig(path, out))

	assert.Equal(t, "9090", out["APP_PORT"])
	assert.Equal(t, "redis:6379", out["REDIS_ADDR"])
	assert.NotContains(t, out, "IGNORED_NUMBER", "non-string values are skipped")
}

func TestMergeMissingFilesReportNotExist(t *testing.T) {
	out := defaultValues()

	err := mergeDotEnv(filepath.Join(t.TempDir(), "nope.env"), out)
	assert.True(t, os.IsNotExist(err))

	err = mergeJSONConfig(filepath.Join(t.TempDir(), "nope.json"), out)
	assert.True(t, os.IsNotExist(err))
}

func TestGetTrimsAndFallsBack(t *testing.T) {
	mu.Lock()
	values["SPACED"] = "  padded  "
	values["BLANK"] = "   "
	mu.Unlock()

	assert.Equal(t, "padded", get("SPACED", "x"))
	assert.Equal(t, "fallback", get("BLANK", "fallback"))
	assert.Equal(t, "fallback", get("ABSENT", "fallback"))
}
