//go:build cgo

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/docbridge"
	"github.com/aretw0/docbridge/pkg/capi"
)

func TestCAllocator_TracksAndIgnoresDoubleFree(t *testing.T) {
	a := newCAllocator()

	buf, err := a.Alloc(0)
	require.NoError(t, err)
	require.Len(t, buf, 0)
	require.GreaterOrEqual(t, cap(buf), 1)
	require.Equal(t, 1, a.Live())

	require.True(t, a.Free(buf))
	require.False(t, a.Free(buf))
	require.Equal(t, 0, a.Live())
}

func TestCAllocator_BacksManualSurface(t *testing.T) {
	alloc := newCAllocator()
	s := docbridge.New(docbridge.WithAllocator(alloc)).Manual

	h := s.DocNew()
	require.Equal(t, capi.StatusOK, s.DocInsertText(h, []byte("hello"), 0))

	content := s.DocGetTextContent(h)
	require.Equal(t, "hello", string(content))
	require.Equal(t, byte(0), content[:len(content)+1][len(content)])

	var n uint
	update := s.DocExportAllUpdates(h, &n)
	require.NotNil(t, update)
	require.EqualValues(t, len(update), n)

	s.StringFree(owned(unsafePointer(content)))
	s.BytesFree(update)
	s.DocFree(h)
	require.Equal(t, 0, alloc.Live())
}
