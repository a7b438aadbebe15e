package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// BlobScheme prefixes Azure Blob Storage locations:
// az://<account>/<container>/<blob path>.
const BlobScheme = "az://"

// BlobClient is the subset of *azblob.Client the loader needs.
type BlobClient interface {
	DownloadStream(ctx context.Context, containerName string, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
}

// Loader opens local files and blobs, decompressing .gz and .zst transparently.
type Loader struct {
	// NewBlobClient creates a client for a storage account URL. When nil,
	// an azblob client authenticated with Credential is used.
	NewBlobClient func(accountURL string) (BlobClient, error)

	// Credential authenticates blob downloads. When nil,
	// azidentity.DefaultAzureCredential is used.
	Credential azcore.TokenCredential
}

// NewLoader returns a Loader with default blob credentials.
func NewLoader() *Loader {
	return &Loader{}
}

// Open returns a reader over the (decompressed) contents of location.
func (l *Loader) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if strings.HasPrefix(location, BlobScheme) {
		rc, err = l.openBlob(ctx, location)
	} else {
		rc, err = os.Open(location)
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", location, err)
	}

	dec, err := decompress(rc, location)
	if err != nil {
		rc.Close() //nolint:errcheck
		return nil, fmt.Errorf("csv: open %s: %w", location, err)
	}
	return dec, nil
}

func (l *Loader) openBlob(ctx context.Context, location string) (io.ReadCloser, error) {
	account, container, blobName, err := parseBlobLocation(location)
	if err != nil {
		return nil, err
	}

	newClient := l.NewBlobClient
	if newClient == nil {
		newClient = l.defaultBlobClient
	}
	client, err := newClient(fmt.Sprintf("https://%s.blob.core.windows.net/", account))
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}

	resp, err := client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("downloading blob: %w", err)
	}
	return resp.Body, nil
}

func (l *Loader) defaultBlobClient(accountURL string) (BlobClient, error) {
	cred := l.Credential
	if cred == nil {
		var err error
		if cred, err = azidentity.NewDefaultAzureCredential(nil); err != nil {
			return nil, err
		}
	}
	client, err := azblob.NewClient(accountURL, cred, &azblob.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Telemetry: policy.TelemetryOptions{ApplicationID: "confint"},
		},
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func parseBlobLocation(location string) (account, container, blobName string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(location, BlobScheme), "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("blob location must look like %s<account>/<container>/<blob>", BlobScheme)
	}
	return parts[0], parts[1], parts[2], nil
}

// decompress wraps rc based on the file extension of name.
func decompress(rc io.ReadCloser, name string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, err
		}
		return &stackedCloser{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), rc}}, nil
	default:
		return rc, nil
	}
}

// stackedCloser closes a decompressor and then its underlying source.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
