package excel

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	apperrors "serviceboard/internal/errors"
)

// Container gives named access to the entries of a workbook zip archive.
// It borrows the caller's byte slice and holds no open file handles.
type Container struct {
	files map[string]*zip.File
	// lower-cased name -> canonical name, for producers that vary case
	folded map[string]string
}

// OpenContainer opens data as a zip archive and checks that the mandatory
// workbook parts are present.
func OpenContainer(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperrors.InvalidArchive("workbook is not a readable zip archive", err)
	}

	c := &Container{
		files:  make(map[string]*zip.File, len(zr.File)),
		folded: make(map[string]string, len(zr.File)),
	}
	for _, f := range zr.File {
		c.files[f.Name] = f
		c.folded[strings.ToLower(f.Name)] = f.Name
	}

	for _, required := range []string{WorkbookPath, WorkbookRelsPath} {
		if !c.Has(required) {
			return nil, apperrors.InvalidArchive(fmt.Sprintf("workbook archive is missing %s", required), nil)
		}
	}
	return c, nil
}

// Has reports whether the archive carries an entry with this name.
func (c *Container) Has(name string) bool {
	return c.lookup(name) != nil
}

// Names lists entry names in sorted order.
func (c *Container) Names() []string {
	names := make([]string, 0, len(c.files))
	for name := range c.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open streams one entry. A missing entry is an invalid archive.
func (c *Container) Open(name string) (io.ReadCloser, error) {
	f := c.lookup(name)
	if f == nil {
		return nil, apperrors.InvalidArchive(fmt.Sprintf("workbook archive is missing %s", name), nil)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, apperrors.InvalidArchive(fmt.Sprintf("failed to open %s", name), err)
	}
	return rc, nil
}

// Entry reads one entry fully.
func (c *Container) Entry(name string) ([]byte, error) {
	rc, err := c.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, apperrors.InvalidArchive(fmt.Sprintf("failed to decompress %s", name), err)
	}
	return data, nil
}

func (c *Container) lookup(name string) *zip.File {
	if f, ok := c.files[name]; ok {
		return f
	}
	if canonical, ok := c.folded[strings.ToLower(name)]; ok {
		return c.files[canonical]
	}
	return nil
}
