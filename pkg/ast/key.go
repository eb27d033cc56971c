// Package ast defines the Prosidy document tree: interned keys, borrowed or
// owned text, property sets, and the block and inline node types.
package ast

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unicode"
	"weak"
)

// ErrInvalidKey is returned for names that are not valid keys.
var ErrInvalidKey = errors.New("invalid key")

// keyData is the shared allocation behind a Key. Key identity is the
// identity of this allocation.
type keyData struct {
	name string
}

// Key is an immutable, interned name used for tag names and property keys.
//
// Keys compare by identity of their interned allocation, so == and map
// lookups are pointer comparisons. Two keys interned from equal strings in
// the same Interner are always equal. A key built with Uninterned is a
// standalone handle and does not equal an interned key with the same text.
type Key struct {
	data *keyData
}

// String returns the key's name.
func (k Key) String() string {
	if k.data == nil {
		return ""
	}
	return k.data.name
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k.data == nil
}

// Interner is a concurrency-safe table of weakly held keys. Entries whose
// keys are no longer referenced are evicted once the garbage collector
// reclaims them.
type Interner struct {
	mu      sync.RWMutex
	entries map[string]weak.Pointer[keyData]
}

// NewInterner creates an empty intern table.
func NewInterner() *Interner {
	return &Interner{entries: make(map[string]weak.Pointer[keyData])}
}

//nolint:gochecknoglobals // Process-wide intern table.
var defaultInterner = NewInterner()

// DefaultInterner returns the process-wide intern table used by Intern.
func DefaultInterner() *Interner {
	return defaultInterner
}

// Intern returns the key for name from the process-wide table.
func Intern(name string) Key {
	return defaultInterner.Intern(name)
}

// NewKey checks name against the key syntax and interns it in the
// process-wide table.
func NewKey(name string) (Key, error) {
	return defaultInterner.NewKey(name)
}

// ValidKey reports whether name is a key: a letter or underscore followed
// by letters, digits, underscores, hyphens and dots.
func ValidKey(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		ok := IsKeyContinue(r)
		if i == 0 {
			ok = IsKeyStart(r)
		}
		if !ok {
			return false
		}
	}
	return true
}

// IsKeyStart reports whether r may begin a key.
func IsKeyStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsKeyContinue reports whether r may follow the first rune of a key.
func IsKeyContinue(r rune) bool {
	return r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Uninterned returns a key that is not registered in any table.
func Uninterned(name string) Key {
	return Key{data: &keyData{name: name}}
}

// Intern returns the existing key for name, registering a new one if
// needed. The read lock and the write lock are never held together.
func (in *Interner) Intern(name string) Key {
	in.mu.RLock()
	ptr, ok := in.entries[name]
	in.mu.RUnlock()
	if ok {
		if data := ptr.Value(); data != nil {
			return Key{data: data}
		}
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	// Another goroutine may have registered it between the two locks.
	if ptr, ok := in.entries[name]; ok {
		if data := ptr.Value(); data != nil {
			return Key{data: data}
		}
	}

	data := &keyData{name: name}
	ptr = weak.Make(data)
	in.entries[name] = ptr
	runtime.AddCleanup(data, in.evict, evictArg{name: name, ptr: ptr})

	return Key{data: data}
}

// NewKey is Intern for names that have passed ValidKey.
func (in *Interner) NewKey(name string) (Key, error) {
	if !ValidKey(name) {
		return Key{}, fmt.Errorf("%w %q", ErrInvalidKey, name)
	}
	return in.Intern(name), nil
}

// Len returns the number of entries currently held, including entries whose
// keys are collected but not yet evicted.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.entries)
}

type evictArg struct {
	name string
	ptr  weak.Pointer[keyData]
}

// evict drops a collected entry unless it was replaced by a newer key.
func (in *Interner) evict(arg evictArg) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if cur, ok := in.entries[arg.name]; ok && cur == arg.ptr {
		delete(in.entries, arg.name)
	}
}
