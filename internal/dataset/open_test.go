package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "label,pred\n1,1\n0,0\n1,0\n"

func TestOpen_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := NewLoader().LoadColumn(context.Background(), Ref{Location: path, Column: "pred"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0", "0"}, got)
}

func TestOpen_Zstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "data.csv.zst")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := NewLoader().LoadColumn(context.Background(), Ref{Location: path, Column: "label"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0", "1"}, got)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	_, err := NewLoader().Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv: open")
}

type fakeBlobClient struct {
	accountURL string
	container  string
	blobName   string
	body       string
	err        error
}

func (f *fakeBlobClient) DownloadStream(_ context.Context, containerName string, blobName string, _ *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error) {
	f.container, f.blobName = containerName, blobName
	if f.err != nil {
		return azblob.DownloadStreamResponse{}, f.err
	}
	return azblob.DownloadStreamResponse{
		DownloadResponse: blob.DownloadResponse{Body: io.NopCloser(strings.NewReader(f.body))},
	}, nil
}

func TestOpen_Blob(t *testing.T) {
	fake := &fakeBlobClient{body: sampleCSV}
	l := &Loader{NewBlobClient: func(accountURL string) (BlobClient, error) {
		fake.accountURL = accountURL
		return fake, nil
	}}

	got, err := l.LoadColumn(context.Background(), Ref{Location: "az://evalstore/runs/seed-1/preds.csv", Column: "pred"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0", "0"}, got)

	assert.Equal(t, "https://evalstore.blob.core.windows.net/", fake.accountURL)
	assert.Equal(t, "runs", fake.container)
	assert.Equal(t, "seed-1/preds.csv", fake.blobName)
}

func TestOpen_BlobErrors(t *testing.T) {
	t.Run("malformed location", func(t *testing.T) {
		l := &Loader{NewBlobClient: func(string) (BlobClient, error) {
			t.Fatal("client should not be created")
			return nil, nil
		}}
		_, err := l.Open(context.Background(), "az://evalstore/only-container")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "<account>/<container>/<blob>")
	})

	t.Run("download failure", func(t *testing.T) {
		errDenied := errors.New("403 forbidden")
		l := &Loader{NewBlobClient: func(string) (BlobClient, error) {
			return &fakeBlobClient{err: errDenied}, nil
		}}
		_, err := l.Open(context.Background(), "az://evalstore/runs/preds.csv")
		require.ErrorIs(t, err, errDenied)
	})

	t.Run("client failure", func(t *testing.T) {
		errNoCreds := errors.New("no credentials")
		l := &Loader{NewBlobClient: func(string) (BlobClient, error) {
			return nil, errNoCreds
		}}
		_, err := l.Open(context.Background(), "az://evalstore/runs/preds.csv")
		require.ErrorIs(t, err, errNoCreds)
	})
}

type staticCredential struct{}

func (staticCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func TestDefaultBlobClient_UsesCredential(t *testing.T) {
	l := &Loader{Credential: staticCredential{}}
	client, err := l.defaultBlobClient("https://evalstore.blob.core.windows.net/")
	require.NoError(t, err)
	assert.IsType(t, &azblob.Client{}, client)
}
