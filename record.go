package cmdbuf

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Record appends a command to the buffer's chain for the command's
// priority. The payload is written directly into page memory together
// with its 16-byte header; no per-command heap allocation occurs and
// the payload bytes are never copied again after this call.
//
// If the page allocator is exhausted the command is silently dropped.
// No error is signaled; callers that need delivery guarantees must
// compare CommandCount deltas around their recording.
//
// Record must only be called by the single producer that currently
// owns the buffer, before MarkReady. This is a caller contract and is
// not enforced internally.
func Record[T Command](b *Buffer, cmd T) {
	prio := cmd.Priority()
	if prio >= priorityCount {
		prio = PriorityNormal
	}

	size := alignUp(headerSize+uint32(unsafe.Sizeof(cmd)), 16)
	p := b.allocateSpace(size, prio)
	if p == nil {
		return
	}

	h := (*CommandHeader)(p)
	h.Size = size
	h.Type = cmd.Type()
	h.Priority = prio
	h.exec = execThunk[T]

	*(*T)(unsafe.Add(p, headerSize)) = cmd

	b.counts[prio]++
	b.stats.CommandsRecorded++
}

// execThunk is the per-type trampoline stored in command headers. Each
// instantiation reinterprets the storage slot as its concrete payload
// type and invokes Execute on it.
func execThunk[T Command](p unsafe.Pointer) {
	payload := (*T)(unsafe.Add(p, headerSize))
	(*payload).Execute()
}

// CheckPayload reports whether T is safe to store in page memory.
// Buffer pages are opaque byte regions that the garbage collector does
// not scan, so a payload containing Go pointers (pointers, slices,
// maps, strings, channels, interfaces) is only valid when every
// referent is kept alive elsewhere. Backend packages call CheckPayload
// from their tests to keep the catalogue pointer-free.
func CheckPayload[T Command]() error {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Errorf("cmdbuf: payload type resolves to nil")
	}
	if containsPointers(t) {
		return fmt.Errorf("cmdbuf: payload type %s contains Go pointers; use typed references instead", t)
	}
	return nil
}

// containsPointers walks a type looking for fields the garbage
// collector would need to scan.
func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return containsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// alignUp rounds v up to the next multiple of align. align must be a
// power of two.
func alignUp(v, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
