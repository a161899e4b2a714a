package schema

import "path/filepath"

// Source records where a Document was read from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind names the loader that produced a Document.
type SourceKind string

const (
	SourceKindReader SourceKind = "reader"
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
)

type origin struct {
	kind SourceKind
	loc  string
}

func (o origin) Kind() SourceKind { return o.kind }

func (o origin) Location() string { return o.loc }

// SourceFromFile returns the Source of an on-disk document.
func SourceFromFile(path string) Source {
	return origin{kind: SourceKindFile, loc: filepath.Clean(path)}
}

// SourceFromFS returns the Source of a document inside an fs.FS.
func SourceFromFS(name string) Source {
	return origin{kind: SourceKindFS, loc: name}
}

func describe(src Source) string {
	if src == nil || src.Location() == "" {
		return string(SourceKindReader)
	}
	return src.Location()
}
