package store

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CK3thou/youtube-transcripts/types"
)

func sample() []types.TranscriptResult {
	return []types.TranscriptResult{
		types.Succeeded(types.VideoInfo{ID: "AAAAAAAAAAA", Title: "First: Intro", URL: "https://www.youtube.com/watch?v=AAAAAAAAAAA"}, "hello there"),
		types.Failed(types.VideoInfo{ID: "BBBBBBBBBBB", Title: "Broken"}, errors.New("no captions")),
		types.Succeeded(types.VideoInfo{ID: "CCCCCCCCCCC", Title: "Third?", URL: "https://www.youtube.com/watch?v=CCCCCCCCCCC"}, "bye"),
	}
}

func TestDocument(t *testing.T) {
	doc := Document(sample()[0])
	want := "Video ID: AAAAAAAAAAA\n" +
		"Title: First: Intro\n" +
		"URL: https://www.youtube.com/watch?v=AAAAAAAAAAA\n" +
		strings.Repeat("-", 80) + "\n\n" +
		"hello there"
	assert.Equal(t, want, doc)
}

type recorder struct {
	seqs []int
	ids  []string
	fail string
}

func (r *recorder) Persist(_ context.Context, seq int, res types.TranscriptResult) (string, error) {
	if res.Video.ID == r.fail {
		return "", errors.New("disk full")
	}
	r.seqs = append(r.seqs, seq)
	r.ids = append(r.ids, res.Video.ID)
	return Filename(seq, res), nil
}

func TestSaveAllNumbersSuccessesOnly(t *testing.T) {
	rec := &recorder{}
	names, err := SaveAll(context.Background(), rec, sample())

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rec.seqs)
	assert.Equal(t, []string{"AAAAAAAAAAA", "CCCCCCCCCCC"}, rec.ids)
	assert.Equal(t, []string{"01_First Intro.txt", "02_Third.txt"}, names)
}

func TestSaveAllContinuesPastErrors(t *testing.T) {
	rec := &recorder{fail: "AAAAAAAAAAA"}
	names, err := SaveAll(context.Background(), rec, sample())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{"02_Third.txt"}, names)
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	names, err := SaveAll(context.Background(), NewFileStore(dir), sample())
	require.NoError(t, err)
	require.Len(t, names, 2)

	data, err := os.ReadFile(filepath.Join(dir, "01_First Intro.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n\nhello there"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files are left behind")
}

func TestZipStore(t *testing.T) {
	z := NewZipStore()
	_, err := SaveAll(context.Background(), z, sample())
	require.NoError(t, err)

	data, err := z.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "01_First Intro.txt", zr.File[0].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	body, _ := io.ReadAll(f)
	_ = f.Close()
	assert.Contains(t, string(body), "Video ID: CCCCCCCCCCC")

	_, err = z.Add("late.txt", "x")
	assert.Error(t, err, "archive is sealed after Bytes")
}

func TestSQLiteArchive(t *testing.T) {
	ctx := context.Background()
	a, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "db", "archive.db"))
	require.NoError(t, err)
	defer a.Close()

	names, err := SaveAll(ctx, a, sample())
	require.NoError(t, err)
	assert.Equal(t, []string{"sqlite:1", "sqlite:2"}, names)

	rows, err := a.ByVideo(ctx, "CCCCCCCCCCC")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Seq)
	assert.Equal(t, "bye", rows[0].Transcript)
	assert.Equal(t, a.BatchID(), rows[0].BatchID)

	none, err := a.ByVideo(ctx, "BBBBBBBBBBB")
	require.NoError(t, err)
	assert.Empty(t, none)
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	api := &fakeS3{}
	s := NewS3StoreWith(api, "bucket", "/transcripts/")

	names, err := SaveAll(context.Background(), s, sample())
	require.NoError(t, err)
	require.Len(t, api.inputs, 2)

	wantKey := "transcripts/" + s.BatchID() + "/01_First Intro.txt"
	assert.Equal(t, wantKey, *api.inputs[0].Key)
	assert.Equal(t, "bucket", *api.inputs[0].Bucket)
	assert.Equal(t, "s3://bucket/"+wantKey, names[0])
	assert.Equal(t, Document(sample()[0]), api.bodies[0])

	_, err = SaveAll(context.Background(), NewS3StoreWith(&fakeS3{err: errors.New("denied")}, "b", ""), sample())
	assert.ErrorContains(t, err, "denied")
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{fail: "CCCCCCCCCCC"}
	names, err := SaveAll(context.Background(), Multi{a, b}, sample())

	assert.Error(t, err)
	assert.Len(t, names, 1)
	assert.Equal(t, []int{1, 2}, a.seqs)
	assert.Equal(t, []int{1}, b.seqs)
}
