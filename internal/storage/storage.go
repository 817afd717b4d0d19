// internal/storage/storage.go
package storage

// Mode is the access mode for permission queries.
type Mode int

const (
	ModeRead Mode = iota
	ModeReadWrite
)

// Permission is the result of a permission query against a root.
type Permission int

const (
	Granted Permission = iota
	Prompt
	Denied
)

// Root is a directory-like storage handle all manifest and asset files of
// one project live under.
type Root interface {
	// Name identifies the root for logging and error messages.
	Name() string

	// File resolves a named entry under the root. With create false a
	// missing entry fails with ErrNotFound; with create true the entry is
	// created empty when absent.
	File(name string, create bool) (File, error)

	// Remove deletes a named entry. Removing a missing entry is not an
	// error.
	Remove(name string) error

	// List returns the names of all entries under the root.
	List() ([]string, error)

	// Scratch reports whether the root is a disposable local scratch
	// location whose entries may be wiped when a new project is created.
	Scratch() bool

	// Permission reports the current access state for the given mode
	// without prompting.
	Permission(mode Mode) Permission

	// RequestPermission interactively requests access for the given mode
	// and returns the resulting state.
	RequestPermission(mode Mode) Permission
}

// File is one named entry under a Root.
type File interface {
	Name() string
	ReadText() (string, error)
	ReadBinary() ([]byte, error)

	// OpenWritable opens the file for a full-content replacement. The new
	// content becomes observable to readers only on a successful Close;
	// backends that cannot offer atomic replacement document best-effort
	// overwrite semantics.
	OpenWritable() (Writer, error)
}

// Writer is a scoped write handle. Close must be called on every exit
// path; the write is durable only after Close returns nil.
type Writer interface {
	Write(p []byte) error
	Close() error
}

// Ensure verifies access for the given mode, prompting once when the root
// reports Prompt. A Denied result maps to ErrPermissionDenied.
func Ensure(root Root, mode Mode) error {
	if root == nil {
		return ErrNoStorageContext
	}
	switch root.Permission(mode) {
	case Granted:
		return nil
	case Denied:
		return ErrPermissionDenied
	}
	if root.RequestPermission(mode) != Granted {
		return ErrPermissionDenied
	}
	return nil
}
