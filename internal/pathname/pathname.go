// Package pathname provides a path value type that keeps the folder and
// leaf components of a filesystem location separate.
//
// The folder component is always separator-terminated (or empty), which is
// what distinguishes a folder location from a file location throughout the
// filesystem adapter.
package pathname

import "strings"

// Separator is the path separator this package normalizes to.
const Separator = "/"

// Pathname holds a filesystem location split into a folder component and a
// leaf filename. Either component may be empty.
type Pathname struct {
	folder   string
	filename string
}

// New builds a Pathname from a raw path string. Everything up to and
// including the last separator becomes the folder component; the remainder
// is the filename.
func New(path string) Pathname {
	var p Pathname
	p.SetPathname(path)
	return p
}

// NewFolder builds a Pathname with only a folder component. The folder is
// separator-terminated even if the input was not.
func NewFolder(folder string) Pathname {
	var p Pathname
	p.SetFolder(folder)
	return p
}

// SetPathname replaces both components from a raw path string.
func (p *Pathname) SetPathname(path string) {
	idx := strings.LastIndex(path, Separator)
	if idx < 0 {
		p.folder = ""
		p.filename = path
		return
	}
	p.folder = path[:idx+1]
	p.filename = path[idx+1:]
}

// SetFolder replaces the folder component, appending a trailing separator
// when the input lacks one.
func (p *Pathname) SetFolder(folder string) {
	p.folder = folder
	if p.folder != "" && !strings.HasSuffix(p.folder, Separator) {
		p.folder += Separator
	}
}

// SetFilename replaces the leaf component.
func (p *Pathname) SetFilename(filename string) {
	p.filename = filename
}

// AppendFolder adds one folder segment to the folder component. A leading
// separator on the segment is dropped so the assembled path stays canonical.
func (p *Pathname) AppendFolder(segment string) {
	segment = strings.TrimPrefix(segment, Separator)
	p.folder += segment
	if segment != "" && !strings.HasSuffix(segment, Separator) {
		p.folder += Separator
	}
}

// String returns the assembled path.
func (p Pathname) String() string {
	return p.folder + p.filename
}

// Folder returns the separator-terminated folder component.
func (p Pathname) Folder() string {
	return p.folder
}

// Filename returns the leaf component.
func (p Pathname) Filename() string {
	return p.filename
}

// Parent returns the folder one level above the folder component, keeping
// the trailing separator. The parent of a single-segment folder and of the
// root is "".
func (p Pathname) Parent() string {
	folder := strings.TrimSuffix(p.folder, Separator)
	idx := strings.LastIndex(folder, Separator)
	if idx < 0 {
		return ""
	}
	return folder[:idx+1]
}

// IsFolderPath reports whether the pathname denotes a folder location, i.e.
// it has no leaf component.
func (p Pathname) IsFolderPath() bool {
	return p.filename == ""
}

// Empty reports whether both components are empty.
func (p Pathname) Empty() bool {
	return p.folder == "" && p.filename == ""
}
