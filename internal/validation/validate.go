// Package validation checks bucket names and object keys against S3 naming rules
// before any request is sent. The facade only calls it in strict mode.
package validation

import (
	"net/netip"
	"strings"
	"unicode"

	"github.com/input-output-hk/s3ctl/s3/errors"
)

const (
	minBucketNameLen = 3
	maxBucketNameLen = 63
	maxObjectKeyLen  = 1024
)

type rule struct {
	violated func(string) bool
	message  string
}

// Checked in order; the first violation is reported.
var bucketRules = []rule{
	{func(s string) bool { return s == "" }, "bucket name cannot be empty"},
	{
		func(s string) bool { return len(s) < minBucketNameLen || len(s) > maxBucketNameLen },
		"bucket name must be between 3 and 63 characters long",
	},
	{
		func(s string) bool { return strings.IndexFunc(s, invalidBucketRune) >= 0 },
		"bucket name can only contain lowercase letters, numbers, dots, and hyphens",
	},
	{
		func(s string) bool { return !isAlnum(s[0]) || !isAlnum(s[len(s)-1]) },
		"bucket name must begin and end with a letter or number",
	},
	{
		func(s string) bool { return strings.Contains(s, "..") || strings.Contains(s, ".-") || strings.Contains(s, "-.") },
		"bucket name cannot contain adjacent periods or a period next to a hyphen",
	},
	{
		func(s string) bool { _, err := netip.ParseAddr(s); return err == nil },
		"bucket name cannot be formatted as an IP address",
	},
	{
		func(s string) bool { return strings.HasPrefix(s, "xn--") || strings.HasPrefix(s, "sthree-") },
		"bucket name cannot use a reserved prefix",
	},
	{
		func(s string) bool { return strings.HasSuffix(s, "-s3alias") || strings.HasSuffix(s, "--ol-s3") },
		"bucket name cannot use a reserved suffix",
	},
}

var keyRules = []rule{
	{func(s string) bool { return s == "" }, "object key cannot be empty"},
	{func(s string) bool { return len(s) > maxObjectKeyLen }, "object key cannot exceed 1024 bytes"},
	{
		func(s string) bool { return strings.IndexFunc(s, unicode.IsControl) >= 0 },
		"object key cannot contain control characters",
	},
	{
		func(s string) bool { return strings.HasPrefix(s, "/") },
		"object key cannot start with a slash",
	},
	{hasDotSegment, "object key cannot contain . or .. path segments"},
}

// ValidateBucketName reports whether bucket is a DNS-compliant S3 bucket name.
func ValidateBucketName(bucket string) error {
	for _, r := range bucketRules {
		if r.violated(bucket) {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage(r.message)
		}
	}
	return nil
}

// ValidateObjectKey reports whether key is safe to use as an object key.
func ValidateObjectKey(key string) error {
	for _, r := range keyRules {
		if r.violated(key) {
			return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
				WithKey(key).
				WithMessage(r.message)
		}
	}
	return nil
}

func invalidBucketRune(r rune) bool {
	return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '.' && r != '-'
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func hasDotSegment(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return true
		}
	}
	return false
}
