// Package docbridge is the composition root for the docbridge runtime.
//
// It wires a collaborative document engine behind a handle-based core and
// exposes it through two surfaces that share the same handle table:
//
//   - **Manual surface** (`pkg/capi`): flat functions with integer handles,
//     status codes and caller-freed buffers, the shape exported to C.
//   - **Managed surface** (`pkg/managed`): reference-counted wrappers whose
//     memory is reclaimed when the last holder releases them.
//
// Every document owns one lock. All of its containers take that same lock,
// so edits from any thread on any container of a document are serialized.
//
// Usage:
//
//	rt := docbridge.New(docbridge.WithLogger(logger))
//
//	doc := rt.Managed.NewDoc()
//	defer doc.Release()
//
//	text, _ := doc.Text("body")
//	_ = text.Insert(0, "hello")
//	update, _ := doc.ExportUpdates()
package docbridge
