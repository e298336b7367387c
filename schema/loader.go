// Package schema implements the Schema Loader: given an IDL file path and
// the fully-qualified name of a root message, it returns a linked
// protoreflect.FileDescriptor and the resolved protoreflect.MessageDescriptor
// for that message, following spec.md §4.1's contract exactly.
package schema

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/weliveindetail/protog/internal/descbuild"
	"github.com/weliveindetail/protog/internal/idl"
)

// Loader loads IDL files into descriptors. The zero value is ready to use;
// Log defaults to a discard logger the way the teacher's Compiler defaults
// its Reporter when none is configured.
type Loader struct {
	Log *logrus.Logger
}

func (l *Loader) log() *logrus.Logger {
	if l.Log != nil {
		return l.Log
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Load opens path, parses it as an IDL file, builds and links its
// descriptor, and resolves msgFullName within it.
func (l *Loader) Load(path, msgFullName string) (protoreflect.FileDescriptor, protoreflect.MessageDescriptor, error) {
	log := l.log()

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &SchemaOpenError{Path: path, Err: err}
	}
	defer f.Close()

	log.WithField("path", path).Debug("opened schema file")

	doc, err := idl.Parse(path, f)
	if err != nil {
		return nil, nil, &SchemaParseError{Path: path, Err: err}
	}

	log.WithFields(logrus.Fields{"path": path, "decls": len(doc.Decls)}).Debug("parsed schema file")

	fd, err := descbuild.Build(doc)
	if err != nil {
		return nil, nil, &SchemaBuildError{Path: path, Err: err}
	}

	log.WithFields(logrus.Fields{"path": path, "package": fd.Package()}).Debug("linked schema descriptor")

	md, err := findMessage(fd, msgFullName)
	if err != nil {
		return nil, nil, err
	}
	return fd, md, nil
}

// findMessage resolves a (possibly nested, dotted) message name against the
// top-level message types declared in fd.
func findMessage(fd protoreflect.FileDescriptor, fullName string) (protoreflect.MessageDescriptor, error) {
	name := fullName
	if pkg := string(fd.Package()); pkg != "" && len(name) > len(pkg) && name[:len(pkg)] == pkg && name[len(pkg)] == '.' {
		name = name[len(pkg)+1:]
	}

	parts := splitDots(name)
	msgs := fd.Messages()
	var md protoreflect.MessageDescriptor
	for i, part := range parts {
		found := findByName(msgs, part)
		if found == nil {
			return nil, &MessageNotFoundError{Name: fullName, Path: string(fd.Path())}
		}
		md = found
		if i < len(parts)-1 {
			msgs = md.Messages()
		}
	}
	if md == nil {
		return nil, &MessageNotFoundError{Name: fullName, Path: string(fd.Path())}
	}
	return md, nil
}

func findByName(msgs protoreflect.MessageDescriptors, name string) protoreflect.MessageDescriptor {
	for i := 0; i < msgs.Len(); i++ {
		if string(msgs.Get(i).Name()) == name {
			return msgs.Get(i)
		}
	}
	return nil
}

func splitDots(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
