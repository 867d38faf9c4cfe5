// Package payload loads the payload template every synthesized work item
// reuses. The template is read once per run from one of:
//
//	(empty)                        built-in purchase order schema
//	/path/to/file.xsd              local file
//	oci://namespace/bucket/object  OCI Object Storage
//	s3://bucket/key                Amazon S3 (default AWS credential chain)
package payload

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"
)

//go:embed PO.xsd
var purchaseOrder []byte

// Default returns a copy of the built-in purchase order schema.
func Default() []byte {
	return append([]byte(nil), purchaseOrder...)
}

// Kind is where a payload comes from.
type Kind int

const (
	KindDefault Kind = iota
	KindFile
	KindOCI
	KindS3
)

// Source is a parsed payload location.
type Source struct {
	Kind      Kind
	Path      string // KindFile
	Namespace string // KindOCI
	Bucket    string // KindOCI, KindS3
	Object    string // KindOCI object name, KindS3 key
}

// ParseSource parses a payload location.
func ParseSource(raw string) (Source, error) {
	switch {
	case raw == "":
		return Source{Kind: KindDefault}, nil
	case strings.HasPrefix(raw, "oci://"):
		parts := strings.SplitN(strings.TrimPrefix(raw, "oci://"), "/", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return Source{}, fmt.Errorf("invalid OCI payload location %q, want oci://namespace/bucket/object", raw)
		}
		return Source{Kind: KindOCI, Namespace: parts[0], Bucket: parts[1], Object: parts[2]}, nil
	case strings.HasPrefix(raw, "s3://"):
		parts := strings.SplitN(strings.TrimPrefix(raw, "s3://"), "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return Source{}, fmt.Errorf("invalid S3 payload location %q, want s3://bucket/key", raw)
		}
		return Source{Kind: KindS3, Bucket: parts[0], Object: parts[1]}, nil
	default:
		return Source{Kind: KindFile, Path: raw}, nil
	}
}

// Loader reads payload templates.
type Loader struct {
	// OCIProvider supplies OCI credentials; only called for oci:// sources.
	OCIProvider func() (common.ConfigurationProvider, error)
}

// Load reads the payload at raw.
func (l Loader) Load(ctx context.Context, raw string) ([]byte, error) {
	src, err := ParseSource(raw)
	if err != nil {
		return nil, err
	}

	switch src.Kind {
	case KindDefault:
		return Default(), nil
	case KindFile:
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		return data, nil
	case KindOCI:
		return l.loadOCI(ctx, src)
	case KindS3:
		return loadS3(ctx, src)
	}
	return nil, fmt.Errorf("unsupported payload source %q", raw)
}

func (l Loader) loadOCI(ctx context.Context, src Source) ([]byte, error) {
	if l.OCIProvider == nil {
		return nil, fmt.Errorf("no OCI configuration for payload %s/%s", src.Bucket, src.Object)
	}
	provider, err := l.OCIProvider()
	if err != nil {
		return nil, err
	}

	client, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create Object Storage client: %w", err)
	}

	resp, err := client.GetObject(ctx, objectstorage.GetObjectRequest{
		NamespaceName: common.String(src.Namespace),
		BucketName:    common.String(src.Bucket),
		ObjectName:    common.String(src.Object),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download payload %s/%s: %w", src.Bucket, src.Object, err)
	}
	defer resp.Content.Close()

	data, err := io.ReadAll(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload %s/%s: %w", src.Bucket, src.Object, err)
	}
	return data, nil
}

func loadS3(ctx context.Context, src Source) ([]byte, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	out, err := s3.NewFromConfig(cfg).GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Object),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download payload s3://%s/%s: %w", src.Bucket, src.Object, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload s3://%s/%s: %w", src.Bucket, src.Object, err)
	}
	return data, nil
}
