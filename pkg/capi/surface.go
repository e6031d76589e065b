// Package capi is the manual-ownership call surface.
//
// Handles are pointer-sized integers, operations return a Status, lengths
// travel through out-parameters and every returned buffer is allocated by
// the surface's Allocator. Callers release strings with StringFree and byte
// buffers with BytesFree, never with their own deallocator. Inputs are
// copied before use and never freed by this package.
//
// A nil slice stands for a NULL pointer argument. Documents are destroyed
// only by DocFree; nothing is reclaimed implicitly.
package capi

import (
	"log/slog"
	"math"

	"github.com/aretw0/docbridge/pkg/bridge"
	"github.com/aretw0/docbridge/pkg/core"
)

// Handle is an opaque pointer-sized reference. Zero is NULL.
type Handle uintptr

// DefaultTextName is the container used by the single-text convenience calls.
const DefaultTextName = "text"

// Surface adapts a bridge to the manual calling convention.
type Surface struct {
	bridge *bridge.Bridge
	alloc  Allocator
	logger *slog.Logger
}

// New creates a Surface. A nil allocator selects an untracked-limit GoAllocator.
func New(b *bridge.Bridge, alloc Allocator, logger *slog.Logger) *Surface {
	if alloc == nil {
		alloc = NewGoAllocator(0)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Surface{bridge: b, alloc: alloc, logger: logger}
}

func (h Handle) id() bridge.Handle { return bridge.Handle(h) }

// toInt converts a C size to int, rejecting values Go cannot index with.
func toInt(u uint) (int, bool) {
	if u > math.MaxInt {
		return 0, false
	}
	return int(u), true
}

// DocNew creates a document. It never fails.
func (s *Surface) DocNew() Handle {
	return Handle(s.bridge.Create())
}

// DocFree destroys a document and its container handles. NULL and unknown
// handles are ignored.
func (s *Surface) DocFree(h Handle) {
	s.bridge.Destroy(h.id())
}

// DocSetPeerID assigns the document's peer id.
func (s *Surface) DocSetPeerID(h Handle, id uint64) Status {
	return StatusOf(s.bridge.SetPeerID(h.id(), id))
}

// DocGetPeerID returns the peer id, or 0 for NULL and unknown handles.
func (s *Surface) DocGetPeerID(h Handle) uint64 {
	return s.bridge.PeerID(h.id())
}

// DocCommit flushes pending edits.
func (s *Surface) DocCommit(h Handle) Status {
	return StatusOf(s.bridge.Commit(h.id()))
}

// DocExportAllUpdates returns the document history. The length is written
// to outLen. NULL is returned on any failure, including allocation.
func (s *Surface) DocExportAllUpdates(h Handle, outLen *uint) []byte {
	return s.export(h, core.ModeUpdates, outLen)
}

// DocExportSnapshot is DocExportAllUpdates in snapshot mode.
func (s *Surface) DocExportSnapshot(h Handle, outLen *uint) []byte {
	return s.export(h, core.ModeSnapshot, outLen)
}

func (s *Surface) export(h Handle, mode core.ExportMode, outLen *uint) []byte {
	if outLen == nil {
		return nil
	}
	data, err := s.bridge.Export(h.id(), mode)
	if err != nil {
		return nil
	}
	buf := s.bytes(data)
	if buf != nil {
		*outLen = uint(len(buf))
	}
	return buf
}

// DocImport merges synchronization bytes into the document.
func (s *Surface) DocImport(h Handle, data []byte) Status {
	if data == nil {
		return StatusNullInput
	}
	return StatusOf(s.bridge.Import(h.id(), data))
}

// DocToJSON returns the whole document as a JSON string.
func (s *Surface) DocToJSON(h Handle) []byte {
	out, err := s.bridge.ToJSON(h.id())
	if err != nil {
		return nil
	}
	return s.str(out)
}

// DocInsertText inserts into the container named DefaultTextName.
func (s *Surface) DocInsertText(h Handle, text []byte, pos uint) Status {
	if h == 0 || text == nil {
		return StatusNullInput
	}
	t := s.DocGetText(h, []byte(DefaultTextName))
	if t == 0 {
		return StatusError
	}
	return s.TextInsert(t, pos, text)
}

// DocDeleteText deletes from the container named DefaultTextName.
func (s *Surface) DocDeleteText(h Handle, start, n uint) Status {
	if h == 0 {
		return StatusNullInput
	}
	t := s.DocGetText(h, []byte(DefaultTextName))
	if t == 0 {
		return StatusError
	}
	return s.TextDelete(t, start, n)
}

// DocGetTextContent returns the content of the container named DefaultTextName.
func (s *Surface) DocGetTextContent(h Handle) []byte {
	t := s.DocGetText(h, []byte(DefaultTextName))
	if t == 0 {
		return nil
	}
	return s.TextToString(t)
}

// StringFree releases a string returned by this surface. NULL is ignored.
func (s *Surface) StringFree(b []byte) {
	s.free(b, "string")
}

// BytesFree releases a byte buffer returned by this surface. NULL is ignored.
func (s *Surface) BytesFree(b []byte) {
	s.free(b, "bytes")
}

func (s *Surface) free(b []byte, what string) {
	if b == nil {
		return
	}
	if !s.alloc.Free(b) {
		s.logger.Warn("ignored free of unknown buffer", "kind", what, "cap", cap(b))
	}
}

// bytes copies data into a caller-owned buffer.
func (s *Surface) bytes(data []byte) []byte {
	buf, err := s.alloc.Alloc(len(data))
	if err != nil {
		s.logger.Error("buffer allocation failed", "size", len(data), "error", err)
		return nil
	}
	copy(buf, data)
	return buf
}

// str copies v into a caller-owned NUL-terminated string. The returned
// slice excludes the terminator.
func (s *Surface) str(v string) []byte {
	buf, err := s.alloc.Alloc(len(v) + 1)
	if err != nil {
		s.logger.Error("string allocation failed", "size", len(v)+1, "error", err)
		return nil
	}
	copy(buf, v)
	buf[len(v)] = 0
	return buf[:len(v)]
}
