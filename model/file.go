// Package model contains the loan-application domain records: supporting
// files, persons, companies and the loan itself. Records validate eagerly at
// construction and are immutable afterwards, except for a file's
// server-assigned upload path and each entity's appendable file list.
package model

import (
	"fmt"
	"os"

	"caseclient/category"
)

// File describes one supporting document: where it lives locally, what it
// is, and - once uploaded - where the remote system stored it.
type File struct {
	nameAndPath string
	mimeType    string
	description string
	cat         category.Category
	uploadPath  string
}

// NewFile validates and builds a file record against the default taxonomy.
// The path must reference an existing, regular, readable file at the time of
// the call; the category id must be a declared taxonomy entry.
func NewFile(nameAndPath, mimeType, description string, categoryID int) (*File, error) {
	return NewFileInTaxonomy(category.Default(), nameAndPath, mimeType, description, categoryID)
}

// NewFileInTaxonomy is NewFile with an explicitly loaded taxonomy.
func NewFileInTaxonomy(tax *category.Taxonomy, nameAndPath, mimeType, description string, categoryID int) (*File, error) {
	info, err := os.Stat(nameAndPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("'%s': %w", nameAndPath, ErrFileNotFound)
		}
		return nil, fmt.Errorf("stat '%s': %w", nameAndPath, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("'%s': %w", nameAndPath, ErrNotAFile)
	}

	f, err := os.Open(nameAndPath)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", nameAndPath, ErrFileUnreadable)
	}
	f.Close()

	cat, ok := tax.ByID(categoryID)
	if !ok {
		return nil, fmt.Errorf("'%d': %w", categoryID, ErrUnknownCategory)
	}

	return &File{
		nameAndPath: nameAndPath,
		mimeType:    mimeType,
		description: description,
		cat:         cat,
	}, nil
}

// NameAndPath returns the local path the file was created from.
func (f *File) NameAndPath() string { return f.nameAndPath }

// MimeType returns the declared content type of the file.
func (f *File) MimeType() string { return f.mimeType }

// Description returns the free-text description.
func (f *File) Description() string { return f.description }

// Category returns the taxonomy entry the file was classified under.
func (f *File) Category() category.Category { return f.cat }

// CategoryID returns the numeric taxonomy id.
func (f *File) CategoryID() int { return f.cat.ID }

// UploadPath returns the server-assigned storage path, or "" before upload.
func (f *File) UploadPath() string { return f.uploadPath }

// SetUploadPath records the storage path assigned by the upload response.
// Last write wins; the submission workflow sets it once per successful run.
func (f *File) SetUploadPath(path string) *File {
	f.uploadPath = path
	return f
}
