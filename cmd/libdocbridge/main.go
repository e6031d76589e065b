//go:build cgo

// Command libdocbridge builds the C shared library:
//
//	go build -buildmode=c-shared -o libdocbridge.so ./cmd/libdocbridge
//
// Every function returning a string or byte buffer transfers ownership to
// the caller, who must release it with docbridge_string_free or
// docbridge_bytes_free. Strings are NUL-terminated UTF-8. Handles are
// opaque; 0 is the null handle.
package main

/*
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef int32_t docbridge_status;
#define DOCBRIDGE_OK 0
#define DOCBRIDGE_ERROR 1
#define DOCBRIDGE_NULL_INPUT 2
*/
import "C"

import (
	"log/slog"
	"os"
	"unsafe"

	"github.com/aretw0/docbridge"
	"github.com/aretw0/docbridge/pkg/capi"
)

var surface = newSurface()

func newSurface() *capi.Surface {
	level := slog.LevelWarn
	if os.Getenv("DOCBRIDGE_LOG") == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	rt := docbridge.New(
		docbridge.WithLogger(logger),
		docbridge.WithAllocator(newCAllocator()),
	)
	return rt.Manual
}

func main() {}

// --- conversions ---

func cstr(p *C.char) []byte {
	if p == nil {
		return nil
	}
	n := C.strlen(p)
	if n == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

func cbytes(p *C.uint8_t, n C.size_t) []byte {
	if p == nil {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

// outStr exposes a surface-allocated string. The memory is C heap.
func outStr(b []byte) *C.char {
	if b == nil {
		return nil
	}
	return (*C.char)(unsafePointer(b))
}

func outBytes(b []byte) *C.uint8_t {
	if b == nil {
		return nil
	}
	return (*C.uint8_t)(unsafePointer(b))
}

// owned rebuilds a slice header for memory handed out earlier.
func owned(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), 1)
}

func status(s capi.Status) C.docbridge_status { return C.docbridge_status(s) }

func handle(h C.uintptr_t) capi.Handle { return capi.Handle(h) }

func lenOut(out *C.size_t, fn func(*uint) capi.Status) C.docbridge_status {
	if out == nil {
		return C.DOCBRIDGE_NULL_INPUT
	}
	var n uint
	st := fn(&n)
	if st == capi.StatusOK {
		*out = C.size_t(n)
	}
	return status(st)
}

// --- document ---

//export docbridge_doc_new
func docbridge_doc_new() C.uintptr_t {
	return C.uintptr_t(surface.DocNew())
}

//export docbridge_doc_free
func docbridge_doc_free(h C.uintptr_t) {
	surface.DocFree(handle(h))
}

//export docbridge_doc_set_peer_id
func docbridge_doc_set_peer_id(h C.uintptr_t, id C.uint64_t) C.docbridge_status {
	return status(surface.DocSetPeerID(handle(h), uint64(id)))
}

//export docbridge_doc_get_peer_id
func docbridge_doc_get_peer_id(h C.uintptr_t) C.uint64_t {
	return C.uint64_t(surface.DocGetPeerID(handle(h)))
}

//export docbridge_doc_commit
func docbridge_doc_commit(h C.uintptr_t) C.docbridge_status {
	return status(surface.DocCommit(handle(h)))
}

//export docbridge_doc_export_all_updates
func docbridge_doc_export_all_updates(h C.uintptr_t, outLen *C.size_t) *C.uint8_t {
	return export(h, outLen, surface.DocExportAllUpdates)
}

//export docbridge_doc_export_snapshot
func docbridge_doc_export_snapshot(h C.uintptr_t, outLen *C.size_t) *C.uint8_t {
	return export(h, outLen, surface.DocExportSnapshot)
}

func export(h C.uintptr_t, outLen *C.size_t, fn func(capi.Handle, *uint) []byte) *C.uint8_t {
	if outLen == nil {
		return nil
	}
	var n uint
	buf := fn(handle(h), &n)
	if buf == nil {
		return nil
	}
	*outLen = C.size_t(n)
	return outBytes(buf)
}

//export docbridge_doc_import
func docbridge_doc_import(h C.uintptr_t, data *C.uint8_t, n C.size_t) C.docbridge_status {
	return status(surface.DocImport(handle(h), cbytes(data, n)))
}

//export docbridge_doc_to_json
func docbridge_doc_to_json(h C.uintptr_t) *C.char {
	return outStr(surface.DocToJSON(handle(h)))
}

//export docbridge_doc_insert_text
func docbridge_doc_insert_text(h C.uintptr_t, text *C.char, pos C.size_t) C.docbridge_status {
	return status(surface.DocInsertText(handle(h), cstr(text), uint(pos)))
}

//export docbridge_doc_delete_text
func docbridge_doc_delete_text(h C.uintptr_t, start, n C.size_t) C.docbridge_status {
	return status(surface.DocDeleteText(handle(h), uint(start), uint(n)))
}

//export docbridge_doc_get_text_content
func docbridge_doc_get_text_content(h C.uintptr_t) *C.char {
	return outStr(surface.DocGetTextContent(handle(h)))
}

// --- containers ---

//export docbridge_doc_get_text
func docbridge_doc_get_text(h C.uintptr_t, name *C.char) C.uintptr_t {
	return C.uintptr_t(surface.DocGetText(handle(h), cstr(name)))
}

//export docbridge_doc_get_list
func docbridge_doc_get_list(h C.uintptr_t, name *C.char) C.uintptr_t {
	return C.uintptr_t(surface.DocGetList(handle(h), cstr(name)))
}

//export docbridge_doc_get_map
func docbridge_doc_get_map(h C.uintptr_t, name *C.char) C.uintptr_t {
	return C.uintptr_t(surface.DocGetMap(handle(h), cstr(name)))
}

//export docbridge_container_free
func docbridge_container_free(h C.uintptr_t) {
	surface.ContainerFree(handle(h))
}

//export docbridge_text_insert
func docbridge_text_insert(h C.uintptr_t, pos C.size_t, text *C.char) C.docbridge_status {
	return status(surface.TextInsert(handle(h), uint(pos), cstr(text)))
}

//export docbridge_text_delete
func docbridge_text_delete(h C.uintptr_t, start, n C.size_t) C.docbridge_status {
	return status(surface.TextDelete(handle(h), uint(start), uint(n)))
}

//export docbridge_text_to_string
func docbridge_text_to_string(h C.uintptr_t) *C.char {
	return outStr(surface.TextToString(handle(h)))
}

//export docbridge_text_len
func docbridge_text_len(h C.uintptr_t, out *C.size_t) C.docbridge_status {
	return lenOut(out, func(n *uint) capi.Status { return surface.TextLen(handle(h), n) })
}

//export docbridge_list_insert
func docbridge_list_insert(h C.uintptr_t, pos C.size_t, valueJSON *C.char) C.docbridge_status {
	return status(surface.ListInsert(handle(h), uint(pos), cstr(valueJSON)))
}

//export docbridge_list_insert_string
func docbridge_list_insert_string(h C.uintptr_t, pos C.size_t, value *C.char) C.docbridge_status {
	return status(surface.ListInsertString(handle(h), uint(pos), cstr(value)))
}

//export docbridge_list_delete
func docbridge_list_delete(h C.uintptr_t, start, n C.size_t) C.docbridge_status {
	return status(surface.ListDelete(handle(h), uint(start), uint(n)))
}

//export docbridge_list_get
func docbridge_list_get(h C.uintptr_t, index C.size_t) *C.char {
	return outStr(surface.ListGet(handle(h), uint(index)))
}

//export docbridge_list_len
func docbridge_list_len(h C.uintptr_t, out *C.size_t) C.docbridge_status {
	return lenOut(out, func(n *uint) capi.Status { return surface.ListLen(handle(h), n) })
}

//export docbridge_map_insert
func docbridge_map_insert(h C.uintptr_t, key, valueJSON *C.char) C.docbridge_status {
	return status(surface.MapInsert(handle(h), cstr(key), cstr(valueJSON)))
}

//export docbridge_map_insert_string
func docbridge_map_insert_string(h C.uintptr_t, key, value *C.char) C.docbridge_status {
	return status(surface.MapInsertString(handle(h), cstr(key), cstr(value)))
}

//export docbridge_map_delete
func docbridge_map_delete(h C.uintptr_t, key *C.char) C.docbridge_status {
	return status(surface.MapDelete(handle(h), cstr(key)))
}

//export docbridge_map_get
func docbridge_map_get(h C.uintptr_t, key *C.char) *C.char {
	return outStr(surface.MapGet(handle(h), cstr(key)))
}

//export docbridge_map_keys
func docbridge_map_keys(h C.uintptr_t) *C.char {
	return outStr(surface.MapKeys(handle(h)))
}

//export docbridge_map_len
func docbridge_map_len(h C.uintptr_t, out *C.size_t) C.docbridge_status {
	return lenOut(out, func(n *uint) capi.Status { return surface.MapLen(handle(h), n) })
}

// --- memory ---

//export docbridge_string_free
func docbridge_string_free(p *C.char) {
	surface.StringFree(owned(unsafe.Pointer(p)))
}

//export docbridge_bytes_free
func docbridge_bytes_free(p *C.uint8_t) {
	surface.BytesFree(owned(unsafe.Pointer(p)))
}

// unsafePointer returns the address of the first byte of a surface buffer.
func unsafePointer(b []byte) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(b[:1]))
}
