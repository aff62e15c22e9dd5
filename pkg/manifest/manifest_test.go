package manifest

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/lfnd/internal/errors"
	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/qntree"
)

const sample = `{
	"routes": [
		{"name": "/", "body": "home"},
		{"name": "/users/:id", "body": "user {id}"},
		{"name": "/users/:other/posts", "body": "posts of {id}, not {other}"},
		{"name": "/old/:id", "redirect": "/users/{id}"},
		{"name": "/teapot", "status": 418, "contentType": "text/html", "body": "<b>tea</b>"},
		{"name": "/", "body": "new home"}
	],
	"notFound": {"status": 404, "body": "no such page"}
}`

func TestParseAndRegister(t *testing.T) {
	m, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := dispatch.New()
	m.Register(r)
	ctx := context.Background()

	tests := []struct {
		path string
		want dispatch.Response
	}{
		{"/", dispatch.Response{Status: 200, ContentType: "text/plain; charset=utf-8", Body: "new home"}},
		{"/users/7", dispatch.Response{Status: 200, ContentType: "text/plain; charset=utf-8", Body: "user 7"}},
		{"/users/7/posts", dispatch.Response{Status: 200, ContentType: "text/plain; charset=utf-8", Body: "posts of 7, not {other}"}},
		{"/old/3", dispatch.Response{Status: http.StatusFound, Location: "/users/3"}},
		{"/teapot", dispatch.Response{Status: 418, ContentType: "text/html", Body: "<b>tea</b>"}},
		{"/nowhere", dispatch.Response{Status: 404, ContentType: "text/plain; charset=utf-8", Body: "no such page"}},
		{"/old", dispatch.Response{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out := r.Resolve(ctx, tt.path)
			if out.Response != tt.want {
				t.Errorf("Response = %+v, want %+v", out.Response, tt.want)
			}
		})
	}

	want := []string{"/", "/old/:id", "/teapot", "/users/:id", "/users/:id/posts"}
	if got := r.Routes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Routes() = %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  string
	}{
		{"not json", `{"routes": [`, "L010"},
		{"unknown field", `{"routes": [], "extra": 1}`, "L010"},
		{"empty name", `{"routes": [{"name": " ", "body": "x"}]}`, "L011"},
		{"bad status", `{"routes": [{"name": "/x", "status": 42}]}`, "L011"},
		{"bad not found", `{"routes": [], "notFound": {"status": 1000}}`, "L011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.HasCode(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	p := qntree.Params{"id": "42", "tab": "info"}
	tests := []struct {
		tmpl string
		want string
	}{
		{"plain", "plain"},
		{"{id}", "42"},
		{"/u/{id}/{tab}", "/u/42/info"},
		{"{missing}", "{missing}"},
		{"{id}{id}", "4242"},
	}
	for _, tt := range tests {
		if got := expand(tt.tmpl, p); got != tt.want {
			t.Errorf("expand(%q) = %q, want %q", tt.tmpl, got, tt.want)
		}
	}
	if got := expand("{id}", nil); got != "{id}" {
		t.Errorf("expand with no params = %q", got)
	}
}

func TestLoadFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(context.Background(), FileSource(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Routes) != 6 {
		t.Errorf("routes = %d, want 6", len(m.Routes))
	}

	_, err = Load(context.Background(), FileSource(filepath.Join(t.TempDir(), "missing.json")))
	if !errors.HasCode(err, "L020") {
		t.Errorf("Load(missing) error = %v, want L020", err)
	}
}

// fakeS3 serves objects from memory.
type fakeS3 struct {
	objects map[string]string
	gotKey  string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := *in.Bucket + "/" + *in.Key
	f.gotKey = key
	body, ok := f.objects[key]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoadS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"bucket/config/routes.json": sample}}

	src, err := SourceFor("s3://bucket/config/routes.json", client)
	if err != nil {
		t.Fatalf("SourceFor() error = %v", err)
	}
	if src.String() != "s3://bucket/config/routes.json" {
		t.Errorf("String() = %q", src.String())
	}

	m, err := Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if client.gotKey != "bucket/config/routes.json" {
		t.Errorf("requested %q", client.gotKey)
	}
	if m.NotFound == nil || m.NotFound.Body != "no such page" {
		t.Errorf("NotFound = %+v", m.NotFound)
	}

	missing := &S3Source{Client: client, Bucket: "bucket", Key: "nope"}
	if _, err := Load(context.Background(), missing); !errors.HasCode(err, "L020") {
		t.Errorf("Load(missing) error = %v, want L020", err)
	}
}

func TestSourceFor(t *testing.T) {
	if src, err := SourceFor("routes.json", nil); err != nil || src != FileSource("routes.json") {
		t.Errorf("SourceFor(file) = (%v, %v)", src, err)
	}

	bad := []struct {
		location string
		client   ObjectGetter
	}{
		{"", nil},
		{"s3://bucket", &fakeS3{}},
		{"s3:///key", &fakeS3{}},
		{"s3://bucket/key", nil},
	}
	for _, tt := range bad {
		if _, err := SourceFor(tt.location, tt.client); !errors.HasCode(err, "L021") {
			t.Errorf("SourceFor(%q) error = %v, want L021", tt.location, err)
		}
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := ParseS3URL("s3://b/a/b/c.json")
	if err != nil || bucket != "b" || key != "a/b/c.json" {
		t.Errorf("ParseS3URL = (%q, %q, %v)", bucket, key, err)
	}
	if _, _, err := ParseS3URL("/local/file"); err == nil {
		t.Error("expected error for non-s3 location")
	}
	if !IsS3("s3://x/y") || IsS3("x/y") {
		t.Error("IsS3 misclassified a location")
	}
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	client := NewS3Client(S3Options{Endpoint: "http://localhost:9000", UsePathStyle: true})
	o := client.Options()
	if o.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", o.Region)
	}
	if o.BaseEndpoint == nil || *o.BaseEndpoint != "http://localhost:9000" {
		t.Errorf("BaseEndpoint = %v", o.BaseEndpoint)
	}
	if !o.UsePathStyle {
		t.Error("UsePathStyle not applied")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := NewS3Client(S3Options{Region: "eu-west-1"}).Options().Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if creds.AccessKeyID != "id" || creds.SecretAccessKey != "secret" {
		t.Errorf("credentials = %+v", creds)
	}
}
