package docbridge_test

import (
	"fmt"
	"log"

	"github.com/aretw0/docbridge"
	"github.com/aretw0/docbridge/pkg/capi"
)

// Example_basic edits a managed document and merges it into a replica.
func Example_basic() {
	rt := docbridge.New()

	a := rt.Managed.NewDoc()
	defer a.Release()
	if err := a.SetPeerID(1); err != nil {
		log.Fatal(err)
	}

	text, err := a.Text("body")
	if err != nil {
		log.Fatal(err)
	}
	defer text.Release()
	if err := text.Insert(0, "hello"); err != nil {
		log.Fatal(err)
	}

	update, err := a.ExportUpdates()
	if err != nil {
		log.Fatal(err)
	}

	b := rt.Managed.NewDoc()
	defer b.Release()
	if err := b.Import(update); err != nil {
		log.Fatal(err)
	}

	replica, err := b.Text("body")
	if err != nil {
		log.Fatal(err)
	}
	defer replica.Release()

	fmt.Println(replica.String())
	// Output:
	// hello
}

// Example_manual drives the flat surface the way a C host would.
func Example_manual() {
	rt := docbridge.New()
	s := rt.Manual

	h := s.DocNew()
	defer s.DocFree(h)

	if st := s.DocInsertText(h, []byte("hello"), 0); st != capi.StatusOK {
		log.Fatal(st)
	}
	if st := s.DocDeleteText(h, 0, 2); st != capi.StatusOK {
		log.Fatal(st)
	}

	content := s.DocGetTextContent(h)
	defer s.StringFree(content)

	fmt.Println(string(content))
	fmt.Println(s.DocDeleteText(h, 10, 1))
	// Output:
	// llo
	// error
}
