package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa861/library/internal/catalog"
	"github.com/mustafa861/library/internal/model"
)

func TestLoad_Demo(t *testing.T) {
	f, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)

	require.Len(t, f.Books, 2)
	assert.Equal(t, model.NewBook{Title: "Python Programming", Author: "John Smith", ISBN: "ISBN123", Quantity: 5}, f.Books[0])
	require.Len(t, f.Members, 1)
	assert.Equal(t, "1234567890", f.Members[0].Phone)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Books)
	assert.Empty(t, f.Members)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "books:\n  - title: T\n    author: A\n    quantity: 1\n    shelf: B2\n"},
		{"negative quantity", "books:\n  - title: T\n    author: A\n    quantity: -2\n"},
		{"blank title", "books:\n  - title: \"  \"\n    author: A\n    quantity: 1\n"},
		{"missing author", "books:\n  - title: T\n    quantity: 1\n"},
		{"bad email", "members:\n  - name: Bob\n    email: bob-at-example\n"},
		{"blank name", "members:\n  - name: \"\"\n"},
		{"not yaml", "books: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApply(t *testing.T) {
	c, err := catalog.Open(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	f, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)

	res, err := Apply(ctx, c, f, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{BooksAdded: 2, MembersAdded: 1}, res)

	// Re-applying skips every entry as a duplicate.
	res, err = Apply(ctx, c, f, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{BooksSkipped: 2, MembersSkipped: 1}, res)

	books, err := c.SearchBooks(ctx, "Python")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, 5, books[0].Available)
}

type failingCatalog struct{}

func (failingCatalog) AddBook(context.Context, model.NewBook) (int64, error) {
	return 0, &catalog.Error{Kind: catalog.KindStorageFailure, Op: "add book", Err: assert.AnError}
}

func (failingCatalog) AddMember(context.Context, model.NewMember) (int64, error) {
	return 0, nil
}

func TestApply_StopsOnStorageFailure(t *testing.T) {
	f := &File{
		Books:   []model.NewBook{{Title: "T", Author: "A", Quantity: 1}},
		Members: []model.NewMember{{Name: "M"}},
	}

	res, err := Apply(context.Background(), failingCatalog{}, f, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, Result{}, res)
}
