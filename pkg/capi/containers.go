package capi

import (
	"encoding/json"
	"math"
)

// DocGetText returns the handle of the named text container. NULL is
// returned for a NULL document or name.
func (s *Surface) DocGetText(doc Handle, name []byte) Handle {
	if name == nil {
		return 0
	}
	h, err := s.bridge.Text(doc.id(), string(name))
	if err != nil {
		return 0
	}
	return Handle(h)
}

// DocGetList returns the handle of the named list container.
func (s *Surface) DocGetList(doc Handle, name []byte) Handle {
	if name == nil {
		return 0
	}
	h, err := s.bridge.List(doc.id(), string(name))
	if err != nil {
		return 0
	}
	return Handle(h)
}

// DocGetMap returns the handle of the named map container.
func (s *Surface) DocGetMap(doc Handle, name []byte) Handle {
	if name == nil {
		return 0
	}
	h, err := s.bridge.Map(doc.id(), string(name))
	if err != nil {
		return 0
	}
	return Handle(h)
}

// ContainerFree releases a container handle without touching its content.
func (s *Surface) ContainerFree(h Handle) {
	s.bridge.Release(h.id())
}

// TextInsert inserts UTF-8 text at a Unicode scalar offset.
func (s *Surface) TextInsert(h Handle, pos uint, text []byte) Status {
	if text == nil {
		return StatusNullInput
	}
	p, ok := toInt(pos)
	if !ok {
		return s.nullOr(h)
	}
	return StatusOf(s.bridge.TextInsert(h.id(), p, string(text)))
}

// TextDelete removes n scalar values starting at start.
func (s *Surface) TextDelete(h Handle, start, n uint) Status {
	st, ok1 := toInt(start)
	cnt, ok2 := toInt(n)
	if !ok1 || !ok2 || st > math.MaxInt-cnt {
		return s.nullOr(h)
	}
	return StatusOf(s.bridge.TextDelete(h.id(), st, cnt))
}

// TextToString returns the content as a NUL-terminated string. Empty
// content yields a non-NULL empty string.
func (s *Surface) TextToString(h Handle) []byte {
	out, err := s.bridge.TextString(h.id())
	if err != nil {
		return nil
	}
	return s.str(out)
}

// TextLen writes the length in Unicode scalar values to outLen.
func (s *Surface) TextLen(h Handle, outLen *uint) Status {
	if outLen == nil {
		return StatusNullInput
	}
	n, err := s.bridge.TextLen(h.id())
	if err == nil {
		*outLen = uint(n)
	}
	return StatusOf(err)
}

// ListInsert inserts a JSON-encoded value at pos.
func (s *Surface) ListInsert(h Handle, pos uint, valueJSON []byte) Status {
	if valueJSON == nil {
		return StatusNullInput
	}
	p, ok := toInt(pos)
	if !ok {
		return s.nullOr(h)
	}
	return StatusOf(s.bridge.ListInsertJSON(h.id(), p, string(valueJSON)))
}

// ListInsertString inserts a string value at pos.
func (s *Surface) ListInsertString(h Handle, pos uint, value []byte) Status {
	if value == nil {
		return StatusNullInput
	}
	p, ok := toInt(pos)
	if !ok {
		return s.nullOr(h)
	}
	return StatusOf(s.bridge.ListInsert(h.id(), p, string(value)))
}

// ListDelete removes n items starting at start.
func (s *Surface) ListDelete(h Handle, start, n uint) Status {
	st, ok1 := toInt(start)
	cnt, ok2 := toInt(n)
	if !ok1 || !ok2 || st > math.MaxInt-cnt {
		return s.nullOr(h)
	}
	return StatusOf(s.bridge.ListDelete(h.id(), st, cnt))
}

// ListGet returns the item at index as a JSON string, or NULL when absent.
func (s *Surface) ListGet(h Handle, index uint) []byte {
	i, ok := toInt(index)
	if !ok {
		return nil
	}
	out, found, err := s.bridge.ListGet(h.id(), i)
	if err != nil || !found {
		return nil
	}
	return s.str(out)
}

// ListLen writes the number of items to outLen.
func (s *Surface) ListLen(h Handle, outLen *uint) Status {
	if outLen == nil {
		return StatusNullInput
	}
	n, err := s.bridge.ListLen(h.id())
	if err == nil {
		*outLen = uint(n)
	}
	return StatusOf(err)
}

// MapInsert sets key to a JSON-encoded value.
func (s *Surface) MapInsert(h Handle, key, valueJSON []byte) Status {
	if key == nil || valueJSON == nil {
		return StatusNullInput
	}
	return StatusOf(s.bridge.MapInsertJSON(h.id(), string(key), string(valueJSON)))
}

// MapInsertString sets key to a string value.
func (s *Surface) MapInsertString(h Handle, key, value []byte) Status {
	if key == nil || value == nil {
		return StatusNullInput
	}
	return StatusOf(s.bridge.MapInsert(h.id(), string(key), string(value)))
}

// MapDelete removes key. Deleting an absent key is an error.
func (s *Surface) MapDelete(h Handle, key []byte) Status {
	if key == nil {
		return StatusNullInput
	}
	return StatusOf(s.bridge.MapDelete(h.id(), string(key)))
}

// MapGet returns the value under key as a JSON string, or NULL when absent.
func (s *Surface) MapGet(h Handle, key []byte) []byte {
	if key == nil {
		return nil
	}
	out, found, err := s.bridge.MapGet(h.id(), string(key))
	if err != nil || !found {
		return nil
	}
	return s.str(out)
}

// MapKeys returns every key as a JSON array string.
func (s *Surface) MapKeys(h Handle) []byte {
	keys, err := s.bridge.MapKeys(h.id())
	if err != nil {
		return nil
	}
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return nil
	}
	return s.str(string(data))
}

// MapLen writes the number of keys to outLen.
func (s *Surface) MapLen(h Handle, outLen *uint) Status {
	if outLen == nil {
		return StatusNullInput
	}
	n, err := s.bridge.MapLen(h.id())
	if err == nil {
		*outLen = uint(n)
	}
	return StatusOf(err)
}

// nullOr reports NullInput for a NULL handle and Error otherwise. It is used
// when an argument is rejected before the handle is resolved.
func (s *Surface) nullOr(h Handle) Status {
	if h == 0 {
		return StatusNullInput
	}
	return StatusError
}
