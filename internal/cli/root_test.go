package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/s3ctl/internal/testutil"
	"github.com/input-output-hk/s3ctl/s3"
	"github.com/input-output-hk/s3ctl/s3/s3types"
)

// harness runs the command line against an in-memory store and filesystem.
type harness struct {
	mem  *testutil.MemoryS3
	fs   billy.Filesystem
	last *s3.Facade
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	// Keep the developer's environment and config file out of the tests.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("S3CTL_ENDPOINT", "")
	t.Setenv("S3CTL_REGION", "")
	t.Setenv("S3CTL_OUTPUT", "")

	return &harness{
		mem: testutil.NewMemoryS3(),
		fs:  memfs.New(),
	}
}

func (h *harness) factory(_ context.Context, bucket string, opts ...s3types.Option) (*s3.Facade, error) {
	opts = append(opts, s3.WithFilesystem(h.fs))
	h.last = s3.NewWithClient(h.mem, bucket, opts...)
	return h.last, nil
}

func (h *harness) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	args = append(args, "--color=false")
	code := run(context.Background(), args, &stdout, &stderr, h.factory)
	return code, stdout.String(), stderr.String()
}

func TestCLI_Lifecycle(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, util.WriteFile(h.fs, "report.txt", []byte("hello"), 0o644))

	code, out, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Attempting to create a bucket called: test-bucket-1\n")
	assert.Contains(t, out, "bucket: test-bucket-1")
	assert.Contains(t, out, "✓ All done!\n")
	assert.True(t, h.mem.HasBucket("test-bucket-1"))

	code, out, _ = h.run("add-object", "test-bucket-1", "report.txt")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Attempting to add the object to the bucket called: test-bucket-1\n")
	assert.Contains(t, out, "key: report.txt")
	assert.Contains(t, out, "size: 5")
	data, ok := h.mem.Object("test-bucket-1", "report.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	code, out, _ = h.run("list", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Attempting to find and list out the objects in the bucket called: test-bucket-1\n")
	assert.Contains(t, out, "- key: report.txt")
	assert.Contains(t, out, "startAfter: foo")

	code, _, errOut := h.run("delete", "test-bucket-1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "✗ ")
	assert.Contains(t, errOut, "BucketNotEmpty")
	assert.Contains(t, errOut, "response body:")

	code, out, _ = h.run("delete-object", "test-bucket-1", "report.txt")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Attempting to find and delete the object in the bucket called: test-bucket-1\n")

	code, out, _ = h.run("delete", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Attempting to delete the bucket named: test-bucket-1\n")
	assert.False(t, h.mem.HasBucket("test-bucket-1"))

	code, out, errOut = h.run("list", "test-bucket-1")
	assert.Equal(t, 1, code)
	assert.NotContains(t, out, "All done!")
	assert.Contains(t, errOut, "bucket not in bucket listing")
}

func TestCLI_PutAlias(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, util.WriteFile(h.fs, "data/notes.txt", []byte("notes"), 0o644))

	code, _, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)

	code, _, _ = h.run("put", "test-bucket-1", "data/notes.txt")
	require.Equal(t, 0, code)
	_, ok := h.mem.Object("test-bucket-1", "data/notes.txt")
	assert.True(t, ok)
}

func TestCLI_MissingLocalFile(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)

	code, out, errOut := h.run("add-object", "test-bucket-1", "missing.txt")
	assert.Equal(t, 1, code)
	assert.NotContains(t, out, "All done!")
	assert.Contains(t, errOut, "missing.txt")
}

func TestCLI_EndpointOverride(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		args  []string
		want  string
		label string
	}{
		{
			name:  "S3_ENDPOINT",
			env:   map[string]string{"S3_ENDPOINT": "http://localhost:4566"},
			want:  "http://localhost:4566",
			label: "us-east-1",
		},
		{
			name:  "prefixed variable",
			env:   map[string]string{"S3CTL_ENDPOINT": "http://localhost:9000"},
			want:  "http://localhost:9000",
			label: "us-east-1",
		},
		{
			name:  "flag beats environment",
			env:   map[string]string{"S3_ENDPOINT": "http://localhost:4566"},
			args:  []string{"--endpoint", "http://127.0.0.1:9000"},
			want:  "http://127.0.0.1:9000",
			label: "us-east-1",
		},
		{
			name:  "explicit region",
			env:   map[string]string{"S3_ENDPOINT": "http://localhost:4566"},
			args:  []string{"--region", "eu-west-1"},
			want:  "http://localhost:4566",
			label: "eu-west-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			args := append([]string{"create", "test-bucket-1"}, tt.args...)
			code, out, _ := h.run(args...)
			require.Equal(t, 0, code)

			require.NotNil(t, h.last)
			assert.Equal(t, tt.want, h.last.Endpoint())
			assert.Equal(t, tt.label, h.last.Region())
			assert.Contains(t, out, "ℹ Using non-standard endpoint "+tt.want)
		})
	}
}

func TestCLI_NoEndpointIsSilent(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "non-standard endpoint")
	assert.Equal(t, "us-east-1", h.last.Region())
}

func TestCLI_JSONOutput(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("create", "test-bucket-1", "-o", "json")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"bucket": "test-bucket-1"`)
	assert.NotContains(t, out, "bucket: test-bucket-1")
}

func TestCLI_ConfigFile(t *testing.T) {
	h := newHarness(t)
	cfgFile := filepath.Join(t.TempDir(), "s3ctl.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output: json\nregion: ap-south-1\n"), 0o600))

	code, out, _ := h.run("--config", cfgFile, "create", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"bucket": "test-bucket-1"`)
	assert.Equal(t, "ap-south-1", h.last.Region())
}

func TestCLI_DefaultConfigFile(t *testing.T) {
	h := newHarness(t)
	home := os.Getenv("HOME")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".s3ctl"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".s3ctl", "config.yaml"), []byte("output: json\n"), 0o600))

	code, out, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"bucket": "test-bucket-1"`)
}

func TestCLI_List(t *testing.T) {
	h := newHarness(t)
	for _, name := range []string{"a.txt", "b.txt", "g.txt", "h.txt"} {
		require.NoError(t, util.WriteFile(h.fs, name, []byte(name), 0o644))
	}

	code, _, _ := h.run("create", "test-bucket-1")
	require.Equal(t, 0, code)
	for _, name := range []string{"a.txt", "b.txt", "g.txt", "h.txt"} {
		code, _, _ = h.run("add-object", "test-bucket-1", name)
		require.Equal(t, 0, code)
	}

	t.Run("default cursor skips keys up to foo", func(t *testing.T) {
		code, out, _ := h.run("list", "test-bucket-1")
		require.Equal(t, 0, code)
		assert.NotContains(t, out, "key: a.txt")
		assert.Contains(t, out, "key: g.txt")
		assert.Contains(t, out, "key: h.txt")
	})

	t.Run("empty cursor lists from the start", func(t *testing.T) {
		code, out, _ := h.run("list", "test-bucket-1", "--start-after", "")
		require.Equal(t, 0, code)
		assert.Contains(t, out, "key: a.txt")
		assert.NotContains(t, out, "startAfter:")
	})

	t.Run("single page is truncated", func(t *testing.T) {
		code, out, _ := h.run("list", "test-bucket-1", "--start-after", "", "--max-keys", "1")
		require.Equal(t, 0, code)
		assert.Contains(t, out, "key: a.txt")
		assert.NotContains(t, out, "key: b.txt")
		assert.Contains(t, out, "isTruncated: true")
		assert.Contains(t, out, "nextContinuationToken: a.txt")
	})

	t.Run("all pages", func(t *testing.T) {
		code, out, _ := h.run("list", "test-bucket-1", "--start-after", "", "--max-keys", "1", "--all")
		require.Equal(t, 0, code)
		for _, key := range []string{"a.txt", "b.txt", "g.txt", "h.txt"} {
			assert.Contains(t, out, "key: "+key)
		}
		assert.Contains(t, out, "isTruncated: false")
		assert.Contains(t, out, "- name: test-bucket-1")
	})

	t.Run("head verification", func(t *testing.T) {
		code, out, _ := h.run("list", "test-bucket-1", "--verify", "head")
		require.Equal(t, 0, code)
		assert.Contains(t, out, "key: g.txt")
		assert.NotContains(t, out, "buckets:")
	})

	t.Run("head verification of a missing bucket", func(t *testing.T) {
		code, _, errOut := h.run("list", "no-such-bucket", "--verify", "head")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "bucket not in bucket listing")
	})

	t.Run("unknown verification mode", func(t *testing.T) {
		code, _, errOut := h.run("list", "test-bucket-1", "--verify", "guess")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, `unsupported verify mode "guess"`)
	})
}

func TestCLI_StrictValidation(t *testing.T) {
	h := newHarness(t)

	code, _, _ := h.run("create", "Not_A_Bucket")
	assert.Equal(t, 0, code, "names are sent unchanged by default")

	code, _, errOut := h.run("create", "Another_Bucket", "--strict")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid bucket name")
	assert.False(t, h.mem.HasBucket("Another_Bucket"))
}

func TestCLI_UsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing bucket", args: []string{"create"}, wantErr: "accepts 1 arg(s)"},
		{name: "missing file", args: []string{"add-object", "b"}, wantErr: "accepts 2 arg(s)"},
		{name: "unknown command", args: []string{"rename", "b"}, wantErr: "unknown command"},
		{name: "unknown backend", args: []string{"create", "b", "--backend", "gcs"}, wantErr: "unsupported backend"},
		{name: "minio without endpoint", args: []string{"create", "b", "--backend", "minio"}, wantErr: "requires --endpoint"},
		{name: "bad output", args: []string{"create", "b", "-o", "xml"}, wantErr: "unsupported output format"},
		{name: "bad log level", args: []string{"create", "b", "--log-level", "loud"}, wantErr: "invalid log level"},
		{name: "missing config file", args: []string{"create", "b", "--config", "/nonexistent/s3ctl.yaml"}, wantErr: "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code, out, errOut := h.run(tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, tt.wantErr)
			assert.NotContains(t, out, "All done!")
		})
	}
}

func TestCLI_ErrorColor(t *testing.T) {
	h := newHarness(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"delete", "test-bucket-1"}, &stdout, &stderr, h.factory)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "\x1b[31m")
	assert.Contains(t, stderr.String(), "NoSuchBucket")
}

func TestCLI_DebugLogging(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run("delete", "test-bucket-1", "--log-level", "debug")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "level=DEBUG")
}

func TestCLI_Version(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run("version")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "s3ctl version dev")
	assert.Contains(t, out, "Go version:")
}
