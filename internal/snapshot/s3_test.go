package snapshot

import (
	"strings"
	"testing"
)

func TestParseS3BucketURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantBkt   string
		wantPre   string
		errSubstr string
	}{
		{
			name:    "bucket only",
			raw:     "s3://my-bucket",
			wantBkt: "my-bucket",
			wantPre: "",
		},
		{
			name:    "bucket with prefix",
			raw:     "s3://my-bucket/vlq/snapshots",
			wantBkt: "my-bucket",
			wantPre: "vlq/snapshots",
		},
		{
			name:      "invalid scheme",
			raw:       "https://my-bucket/vlq",
			wantErr:   true,
			errSubstr: "s3:// scheme",
		},
		{
			name:      "missing bucket",
			raw:       "s3:///vlq",
			wantErr:   true,
			errSubstr: "missing bucket",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotBkt, gotPre, err := parseS3BucketURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errSubstr != "" && !strings.Contains(err.Error(), tt.errSubstr) {
					t.Fatalf("err = %q, want substring %q", err.Error(), tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseS3BucketURL error: %v", err)
			}
			if gotBkt != tt.wantBkt {
				t.Errorf("bucket = %q, want %q", gotBkt, tt.wantBkt)
			}
			if gotPre != tt.wantPre {
				t.Errorf("prefix = %q, want %q", gotPre, tt.wantPre)
			}
		})
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty", "", true, ""},
		{"explicit http kept", "http://minio.local:9000", true, "http://minio.local:9000"},
		{"explicit https kept", "https://s3.example.com", false, "https://s3.example.com"},
		{"bare with ssl", "s3.example.com", true, "https://s3.example.com"},
		{"bare without ssl", "minio.local:9000", false, "http://minio.local:9000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeEndpoint(tt.endpoint, tt.useSSL); got != tt.want {
				t.Errorf("normalizeEndpoint(%q, %v) = %q, want %q", tt.endpoint, tt.useSSL, got, tt.want)
			}
		})
	}
}

func TestNewS3Uploader_RequiresCredentials(t *testing.T) {
	_, err := NewS3Uploader(S3Config{BucketURL: "s3://bucket", AccessKey: "", SecretKey: "x"})
	if err == nil || !strings.Contains(err.Error(), "access key") {
		t.Errorf("missing access key error = %v", err)
	}

	_, err = NewS3Uploader(S3Config{BucketURL: "s3://bucket", AccessKey: "x", SecretKey: ""})
	if err == nil || !strings.Contains(err.Error(), "access key") {
		t.Errorf("missing secret key error = %v", err)
	}
}

func TestNewS3Uploader_RejectsBadBucketURL(t *testing.T) {
	_, err := NewS3Uploader(S3Config{BucketURL: "gs://bucket", AccessKey: "x", SecretKey: "y"})
	if err == nil {
		t.Error("non-s3 bucket URL should be rejected")
	}
}
