// Package seed loads catalog seed files and applies them to a catalog.
//
// A seed file is YAML with two optional lists:
//
//	books:
//	  - title: Python Programming
//	    author: John Smith
//	    isbn: ISBN123
//	    quantity: 5
//	members:
//	  - name: Alice Brown
//	    email: alice@email.com
//	    phone: "1234567890"
//
// Files are decoded strictly (unknown keys are errors) and then checked
// against an embedded CUE schema before anything is written.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/mustafa861/library/internal/catalog"
	"github.com/mustafa861/library/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// File is a decoded seed file.
type File struct {
	Books   []model.NewBook   `yaml:"books" json:"books,omitempty"`
	Members []model.NewMember `yaml:"members" json:"members,omitempty"`
}

// Result counts what Apply did.
type Result struct {
	BooksAdded     int `json:"books_added"`
	BooksSkipped   int `json:"books_skipped"`
	MembersAdded   int `json:"members_added"`
	MembersSkipped int `json:"members_skipped"`
}

// Catalog is the subset of the catalog that Apply writes through.
type Catalog interface {
	AddBook(ctx context.Context, b model.NewBook) (int64, error)
	AddMember(ctx context.Context, m model.NewMember) (int64, error)
}

// Load reads and validates the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates seed YAML.
func Parse(data []byte) (*File, error) {
	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	if err := validateSchema(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// validateSchema unifies f with #Seed and requires a concrete, error-free result.
func validateSchema(f *File) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile seed schema: %w", err)
	}

	seedDef := schema.LookupPath(cue.ParsePath("#Seed"))
	value := seedDef.Unify(ctx.Encode(f))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid seed: %s", cueerrors.Details(err, nil))
	}
	return nil
}

// Apply adds every book and member in f. Entries that collide with existing
// ones (same isbn or email) are skipped and counted; any other failure stops
// the run and is returned along with the counts so far.
func Apply(ctx context.Context, c Catalog, f *File, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	for _, b := range f.Books {
		if _, err := c.AddBook(ctx, b); err != nil {
			if catalog.IsConstraintViolation(err) {
				logger.Info("skipping book", "title", b.Title, "isbn", b.ISBN, "reason", "duplicate isbn")
				res.BooksSkipped++
				continue
			}
			return res, fmt.Errorf("seed book %q: %w", b.Title, err)
		}
		res.BooksAdded++
	}

	for _, m := range f.Members {
		if _, err := c.AddMember(ctx, m); err != nil {
			if catalog.IsConstraintViolation(err) {
				logger.Info("skipping member", "name", m.Name, "email", m.Email, "reason", "duplicate email")
				res.MembersSkipped++
				continue
			}
			return res, fmt.Errorf("seed member %q: %w", m.Name, err)
		}
		res.MembersAdded++
	}

	return res, nil
}
