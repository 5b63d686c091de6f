package intake

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"pet-adoption-hub/internal/domain/animals"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpeg = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00fake-jpeg")

type fakeMedia struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (m *fakeMedia) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, _ := io.ReadAll(body)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.puts == nil {
		m.puts = map[string][]byte{}
	}
	m.puts[key] = b
	return "https://cdn.example/" + key, nil
}

type fakeCatalog struct {
	created []animals.Draft
	err     error
}

func (c *fakeCatalog) Create(ctx context.Context, d animals.Draft) (animals.Animal, error) {
	if c.err != nil {
		return animals.Animal{}, c.err
	}
	c.created = append(c.created, d)
	p, _ := animals.ParsePurpose(d.Purpose)
	return animals.Animal{
		ID: "a1", Name: d.Name, Type: d.Type, Purpose: p, City: d.City, Address: d.Address,
		ImageURL: d.ImageURL, Location: d.Location, IsAvailable: true,
	}, nil
}

type countingView struct{ n int }

func (v *countingView) Invalidate() { v.n++ }

func complete() Submission {
	return Submission{
		Name: "Milo", Type: "Dog", Purpose: "Adopt", City: "Pune", Address: "MG Road",
		Media: &Capture{Body: jpeg, ContentType: "image/jpeg"},
	}
}

func TestSubmit_StoresMediaThenCreates(t *testing.T) {
	m := &fakeMedia{}
	c := &fakeCatalog{}
	view := &countingView{}
	a := NewAssembler(c, m, Options{View: view})
	a.newKey = func(ext string) string { return "animals/fixed" + ext }

	got, err := a.Submit(context.Background(), complete())
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/animals/fixed.jpg", got.ImageURL)
	assert.Nil(t, got.Location, "absent geo is recorded as null")
	assert.Equal(t, jpeg, m.puts["animals/fixed.jpg"])
	require.Len(t, c.created, 1)
	assert.Equal(t, 1, view.n)
}

func TestSubmit_WithGeo(t *testing.T) {
	c := &fakeCatalog{}
	a := NewAssembler(c, &fakeMedia{}, Options{})

	s := complete()
	s.Geo = &animals.Geo{Latitude: 18.52, Longitude: 73.85}
	got, err := a.Submit(context.Background(), s)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, 73.85, got.Location.Longitude)
}

func TestSubmit_WithoutMedia_NothingStored(t *testing.T) {
	m := &fakeMedia{}
	c := &fakeCatalog{}
	a := NewAssembler(c, m, Options{})

	s := complete()
	s.Media = nil
	_, err := a.Submit(context.Background(), s)

	assert.ErrorIs(t, err, ErrIncompleteSubmission)
	assert.ErrorIs(t, err, animals.ErrValidation)
	assert.Empty(t, m.puts, "no upload")
	assert.Empty(t, c.created, "no record")
}

func TestSubmit_Rejections_DoNotUpload(t *testing.T) {
	cases := map[string]func(s *Submission){
		"blank name":    func(s *Submission) { s.Name = "  " },
		"blank address": func(s *Submission) { s.Address = "" },
		"empty image":   func(s *Submission) { s.Media.Body = nil },
		"bad purpose":   func(s *Submission) { s.Purpose = "Foster" },
		"not an image":  func(s *Submission) { s.Media = &Capture{Body: []byte("plain text"), ContentType: ""} },
		"bad latitude":  func(s *Submission) { s.Geo = &animals.Geo{Latitude: 120, Longitude: 0} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := &fakeMedia{}
			c := &fakeCatalog{}
			s := complete()
			mutate(&s)

			_, err := NewAssembler(c, m, Options{}).Submit(context.Background(), s)
			assert.ErrorIs(t, err, animals.ErrValidation)
			assert.Empty(t, m.puts)
			assert.Empty(t, c.created)
		})
	}
}

func TestSubmit_MediaFailure_NoRecord(t *testing.T) {
	c := &fakeCatalog{}
	a := NewAssembler(c, &fakeMedia{err: errors.New("s3 down")}, Options{})

	_, err := a.Submit(context.Background(), complete())
	assert.ErrorIs(t, err, ErrMediaUnavailable)
	assert.Empty(t, c.created)
}

func TestSubmit_CatalogFailurePropagates(t *testing.T) {
	view := &countingView{}
	a := NewAssembler(&fakeCatalog{err: animals.ErrStoreUnavailable}, &fakeMedia{}, Options{View: view})

	_, err := a.Submit(context.Background(), complete())
	assert.ErrorIs(t, err, animals.ErrStoreUnavailable)
	assert.Zero(t, view.n)
}

func TestParseGeo(t *testing.T) {
	g, err := parseGeo("", "")
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = parseGeo("18.5", " 73.8 ")
	require.NoError(t, err)
	assert.Equal(t, &animals.Geo{Latitude: 18.5, Longitude: 73.8}, g)

	_, err = parseGeo("18.5", "")
	assert.ErrorIs(t, err, errGeoPair)

	_, err = parseGeo("north", "1")
	assert.Error(t, err)
}
