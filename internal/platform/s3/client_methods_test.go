package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, region string, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
		Retryer:      aws.NopRetryer{},
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: region}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestCreateBucket_SendsLocationConstraint(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var method, path, body string

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(data)
		mu.Unlock()
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
	}))

	err := client.CreateBucket(context.Background(), "artifacts")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/artifacts", path)
	assert.Contains(t, body, "<LocationConstraint>eu-west-1</LocationConstraint>")
}

func TestCreateBucket_UsEast1OmitsConstraint(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var body string

	client := testClient(t, "us-east-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body = string(data)
		mu.Unlock()
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?><CreateBucketResult/>`)
	}))

	require.NoError(t, client.CreateBucket(context.Background(), "artifacts"))

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, body, "LocationConstraint")
}

func TestCreateBucket_AlreadyOwnedByYou(t *testing.T) {
	t.Parallel()

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusConflict, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>BucketAlreadyOwnedByYou</Code>
  <Message>Your previous request to create the named bucket succeeded and you already own it.</Message>
  <BucketName>artifacts</BucketName>
</Error>`)
	}))

	err := client.CreateBucket(context.Background(), "artifacts")
	require.Error(t, err)

	var owned *s3types.BucketAlreadyOwnedByYou
	assert.True(t, errors.As(err, &owned), "conflict must stay classifiable through the wrapper: %v", err)
}

func TestCreateBucket_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	}))

	err := client.CreateBucket(context.Background(), "artifacts")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to create bucket artifacts"), err.Error())
}

func TestBucketExists_True(t *testing.T) {
	t.Parallel()

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	exists, err := client.BucketExists(context.Background(), "artifacts")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBucketExists_False(t *testing.T) {
	t.Parallel()

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	exists, err := client.BucketExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBucketExists_OtherError(t *testing.T) {
	t.Parallel()

	client := testClient(t, "eu-west-1", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.BucketExists(context.Background(), "artifacts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket artifacts")
}
