package bridge

import (
	"fmt"

	"github.com/aretw0/docbridge/pkg/core"
)

// Export serializes the document's full history in the given mode.
func (b *Bridge) Export(h Handle, mode core.ExportMode) ([]byte, error) {
	var out []byte
	err := b.withDoc(h, "export_"+mode.String(), func(d core.Doc) error {
		data, err := d.Export(mode)
		if err != nil {
			return err
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.metrics.syncBytes.WithLabelValues("export").Add(float64(len(out)))
	b.logger.Debug("exported document", "handle", h, "mode", mode.String(), "bytes", len(out))
	return out, nil
}

// Import merges foreign synchronization bytes. The bytes reach the engine
// unmodified; ordering and duplicate detection are the engine's job.
func (b *Bridge) Import(h Handle, data []byte) error {
	if data == nil {
		b.metrics.observe("import", core.ErrNullInput)
		return fmt.Errorf("%w: import data", core.ErrNullInput)
	}
	err := b.withDoc(h, "import", func(d core.Doc) error {
		return d.Import(data)
	})
	if err != nil {
		b.logger.Debug("import rejected", "handle", h, "bytes", len(data), "error", err)
		return err
	}
	b.metrics.syncBytes.WithLabelValues("import").Add(float64(len(data)))
	return nil
}
