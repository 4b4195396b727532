package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/input-output-hk/s3ctl/s3/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr string
	}{
		{"simple", "my-bucket", ""},
		{"numbers", "test-bucket-1", ""},
		{"dots", "my.bucket", ""},
		{"starts_with_number", "1bucket", ""},
		{"min_length", "abc", ""},
		{"max_length", strings.Repeat("a", 63), ""},

		{"empty", "", "bucket name cannot be empty"},
		{"too_short", "ab", "between 3 and 63"},
		{"too_long", strings.Repeat("a", 64), "between 3 and 63"},
		{"uppercase", "MyBucket", "lowercase letters"},
		{"underscore", "my_bucket", "lowercase letters"},
		{"space", "my bucket", "lowercase letters"},
		{"leading_hyphen", "-bucket", "begin and end"},
		{"trailing_dot", "bucket.", "begin and end"},
		{"double_dot", "my..bucket", "adjacent periods"},
		{"dot_hyphen", "my.-bucket", "adjacent periods"},
		{"ip_address", "192.168.1.1", "IP address"},
		{"xn_prefix", "xn--bucket", "reserved prefix"},
		{"alias_suffix", "bucket-s3alias", "reserved suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, s3errors.ErrInvalidBucketName)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{"simple", "report.txt", ""},
		{"relative_path", "data/2024/report.txt", ""},
		{"unicode", "файл.txt", ""},
		{"spaces", "file with spaces.txt", ""},
		{"dots_in_name", "archive..tar", ""},

		{"empty", "", "cannot be empty"},
		{"too_long", strings.Repeat("k", 1025), "exceed 1024"},
		{"control_char", "bad\x00key", "control characters"},
		{"absolute", "/tmp/report.txt", "start with a slash"},
		{"parent_segment", "data/../secret", "path segments"},
		{"current_segment", "./report.txt", "path segments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, s3errors.ErrInvalidObjectKey)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
